package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zkan/netlab/internal/chat"
	"github.com/zkan/netlab/internal/integration"
	"github.com/zkan/netlab/internal/pubsub"
)

var (
	chatMode string
	chatPort int
	chatName string
	chatRaw  bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the broadcast chat server or an interactive client",
	Long: `The server relays every received message to all other connected
clients, never back to the sender. Two protocol variants exist: the
default length-framed protocol carrying encoded values, and a raw
variant (--raw) that relays 1024-byte text reads verbatim.

The client reads lines from stdin and prints whatever the server
relays. Type "exit" or "quit" to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := chatPort
		if port == 0 {
			port = cfg.ChatPort
		}

		ctx, stop := signalContext()
		defer stop()

		switch chatMode {
		case "server":
			return runChatServer(ctx, port)
		case "client":
			if chatRaw {
				return runRawChatClient(ctx, port)
			}
			return runChatClient(ctx, port)
		default:
			return fmt.Errorf("unknown mode %q, want server or client", chatMode)
		}
	},
}

// runChatServer serves until interrupted, then records the session
// summary. The bus runs on its own context so the summary can still be
// published after the signal context is canceled.
func runChatServer(ctx context.Context, port int) error {
	return withBus(context.Background(), func(pub pubsub.Publisher) error {
		addr := fmt.Sprintf(":%d", port)

		var stats chat.Summary
		var err error
		if chatRaw {
			srv := chat.NewRawServer()
			err = srv.ListenAndServe(ctx, addr)
			stats = srv.Stats()
		} else {
			srv := chat.NewServer()
			err = srv.ListenAndServe(ctx, addr)
			stats = srv.Stats()
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		fmt.Printf("Session closed: %d messages in %s\n", stats.MessageCount, stats.Duration.Round(time.Second))
		return integration.Publish(context.Background(), pub, integration.TopicChatSession, "chat", integration.ChatSessionEvent{
			SessionType:  stats.SessionType,
			Port:         port,
			Duration:     stats.Duration.Seconds(),
			MessageCount: stats.MessageCount,
		})
	})
}

func runChatClient(ctx context.Context, port int) error {
	client, err := chat.Dial(ctx, fmt.Sprintf("127.0.0.1:%d", port), chatName)
	if err != nil {
		return err
	}
	defer client.Close()

	go func() {
		for {
			value, err := client.Receive()
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
					fmt.Fprintln(os.Stderr, "receive:", err)
				}
				return
			}
			fmt.Println(value)
		}
	}()

	fmt.Printf("Connected as %s. Type a message, or exit/quit to leave.\n", chatName)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "exit" || text == "quit" {
			return nil
		}
		if text == "" {
			continue
		}
		if err := client.SendText(text); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// runRawChatClient speaks the unframed protocol: plain writes tagged
// with the sender's name and a wall-clock timestamp, plain reads printed
// as-is.
func runRawChatClient(ctx context.Context, port int) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := conn.Read(buf)
			if err != nil || n == 0 {
				return
			}
			fmt.Println(string(buf[:n]))
		}
	}()

	fmt.Printf("Connected as %s. Type a message, or exit/quit to leave.\n", chatName)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "exit" || text == "quit" {
			return nil
		}
		if text == "" {
			continue
		}
		line := fmt.Sprintf("%s (%s): %s", chatName, time.Now().Format("15:04:05"), text)
		if _, err := conn.Write([]byte(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func init() {
	chatCmd.Flags().StringVar(&chatMode, "mode", "server", "server or client")
	chatCmd.Flags().IntVar(&chatPort, "port", 0, "TCP port (defaults to NETLAB_CHAT_PORT)")
	chatCmd.Flags().StringVar(&chatName, "name", "anonymous", "display name in client mode")
	chatCmd.Flags().BoolVar(&chatRaw, "raw", false, "use the unframed text protocol")
	rootCmd.AddCommand(chatCmd)
}
