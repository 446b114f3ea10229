//go:build unix

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zkan/netlab/internal/integration"
	"github.com/zkan/netlab/internal/pubsub"
	"github.com/zkan/netlab/internal/sockopt"
)

var (
	sockoptMode     string
	sockoptPort     int
	sockoptName     string
	sockoptTimeout  time.Duration
	sockoptRcvBuf   int
	sockoptSndBuf   int
	sockoptNonBlock bool
)

var sockoptCmd = &cobra.Command{
	Use:   "sockopt",
	Short: "Run the framed chat over explicitly configured sockets",
	Long: `Same framed chat protocol as "netlab chat", but the sockets carry
explicit settings: accept/connect timeouts, blocking mode, and
send/receive buffer sizes. The effective values are read back from the
kernel and logged, since it may round the requested buffer sizes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := sockoptPort
		if port == 0 {
			port = cfg.ChatPort
		}
		opts := sockopt.Options{
			Timeout:     sockoptTimeout,
			NonBlocking: sockoptNonBlock,
			RecvBuffer:  sockoptRcvBuf,
			SendBuffer:  sockoptSndBuf,
		}

		ctx, stop := signalContext()
		defer stop()

		switch sockoptMode {
		case "server":
			return runSockoptServer(ctx, port, opts)
		case "client":
			return runSockoptClient(ctx, port, opts)
		default:
			return fmt.Errorf("unknown mode %q, want server or client", sockoptMode)
		}
	},
}

func runSockoptServer(ctx context.Context, port int, opts sockopt.Options) error {
	return withBus(context.Background(), func(pub pubsub.Publisher) error {
		srv := sockopt.NewServer(opts)
		err := srv.ListenAndServe(ctx, fmt.Sprintf(":%d", port))
		if err != nil && !errors.Is(err, context.Canceled) {
			integration.Publish(context.Background(), pub, integration.TopicSocketError, "sockopt", integration.SocketErrorEvent{
				ErrorType:    "listen",
				ErrorMessage: err.Error(),
				Module:       "sockopt",
				Port:         port,
			})
			return err
		}

		stats := srv.Chat.Stats()
		fmt.Printf("Session closed: %d messages in %s\n", stats.MessageCount, stats.Duration.Round(time.Second))
		return integration.Publish(context.Background(), pub, integration.TopicChatSession, "sockopt", integration.ChatSessionEvent{
			SessionType:  stats.SessionType,
			Port:         port,
			Duration:     stats.Duration.Seconds(),
			MessageCount: stats.MessageCount,
		})
	})
}

func runSockoptClient(ctx context.Context, port int, opts sockopt.Options) error {
	client, err := sockopt.DialChat(ctx, fmt.Sprintf("127.0.0.1:%d", port), sockoptName, opts)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Printf("Connected as %s. Type a message, or exit/quit to leave.\n", sockoptName)
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

func init() {
	sockoptCmd.Flags().StringVar(&sockoptMode, "mode", "server", "server or client")
	sockoptCmd.Flags().IntVar(&sockoptPort, "port", 0, "TCP port (defaults to NETLAB_CHAT_PORT)")
	sockoptCmd.Flags().StringVar(&sockoptName, "name", "anonymous", "display name in client mode")
	sockoptCmd.Flags().DurationVar(&sockoptTimeout, "timeout", 0, "connect timeout (client) or accept timeout (server); 0 blocks")
	sockoptCmd.Flags().IntVar(&sockoptRcvBuf, "rcvbuf", 0, "requested SO_RCVBUF in bytes; 0 keeps the kernel default")
	sockoptCmd.Flags().IntVar(&sockoptSndBuf, "sndbuf", 0, "requested SO_SNDBUF in bytes; 0 keeps the kernel default")
	sockoptCmd.Flags().BoolVar(&sockoptNonBlock, "nonblock", false, "probe instead of blocking on accept and receive")
	rootCmd.AddCommand(sockoptCmd)
}
