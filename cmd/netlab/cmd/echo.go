package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zkan/netlab/internal/echo"
	"github.com/zkan/netlab/internal/integration"
	"github.com/zkan/netlab/internal/pubsub"
)

var (
	echoMode    string
	echoPort    int
	echoMessage string
)

var echoCmd = &cobra.Command{
	Use:   "echo",
	Short: "Run the TCP echo server or client",
	Long: `In server mode, accepts one connection at a time, reads a single
message of up to 2048 bytes and writes it straight back.

In client mode, sends a message, reads the reply until the server closes
the connection, verifies the bytes match, and records the result in the
integration log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := echoPort
		if port == 0 {
			port = cfg.EchoPort
		}

		ctx, stop := signalContext()
		defer stop()

		switch echoMode {
		case "server":
			return runEchoServer(ctx, port)
		case "client":
			return runEchoClient(ctx, port)
		default:
			return fmt.Errorf("unknown mode %q, want server or client", echoMode)
		}
	},
}

func runEchoServer(ctx context.Context, port int) error {
	srv, err := echo.Listen(fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	if err := srv.Serve(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runEchoClient(ctx context.Context, port int) error {
	return withBus(ctx, func(pub pubsub.Publisher) error {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		result, err := echo.Run(ctx, addr, []byte(echoMessage))
		if err != nil {
			integration.Publish(ctx, pub, integration.TopicEchoResult, "echo", integration.EchoResultEvent{
				Port:         port,
				Status:       integration.StatusFailed,
				ErrorMessage: err.Error(),
			})
			integration.Publish(ctx, pub, integration.TopicSocketError, "echo", integration.SocketErrorEvent{
				ErrorType:    "connection",
				ErrorMessage: err.Error(),
				Module:       "echo",
				Port:         port,
			})
			return err
		}

		fmt.Printf("Sent %d bytes, received %d bytes in %s\n", result.Sent, result.Received, result.Elapsed)
		if result.Match {
			fmt.Println("Reply matches the sent message.")
		} else {
			fmt.Println("Reply does NOT match the sent message.")
		}

		return integration.Publish(ctx, pub, integration.TopicEchoResult, "echo", integration.EchoResultEvent{
			Port:         port,
			Status:       integration.StatusCompleted,
			ResponseTime: result.Elapsed.Seconds(),
		})
	})
}

func init() {
	echoCmd.Flags().StringVar(&echoMode, "mode", "server", "server or client")
	echoCmd.Flags().IntVar(&echoPort, "port", 0, "TCP port (defaults to NETLAB_ECHO_PORT)")
	echoCmd.Flags().StringVar(&echoMessage, "message", echo.DefaultMessage, "message to send in client mode")
	rootCmd.AddCommand(echoCmd)
}
