package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/zkan/netlab/internal/config"
	"github.com/zkan/netlab/internal/integration"
	"github.com/zkan/netlab/internal/logging"
	"github.com/zkan/netlab/internal/pubsub"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "netlab",
	Short: "Network programming exercises",
	Long: `netlab bundles a set of small network tools: a TCP echo
server/client, an SNTP time check, a broadcast chat server in two
protocol variants, a socket-settings demo, and an integration log that
records results from all of them.

Use "netlab [command] --help" for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.New()
		var err error
		cfg, err = config.New()
		return err
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext returns a context canceled by SIGINT or SIGTERM. That is
// the only cancellation signal the tools react to; there is no shutdown
// handshake with peers.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openStore opens the integration log on the real filesystem.
func openStore() *integration.Store {
	return integration.NewStore(afero.NewOsFs(), cfg.DataFile)
}

// withBus runs fn with an event bus whose messages are recorded into the
// integration log.
func withBus(ctx context.Context, fn func(pub pubsub.Publisher) error) error {
	bridge := pubsub.NewWatermillBridge()
	defer bridge.Close()

	if err := integration.NewSubscriber(openStore()).Start(ctx, bridge); err != nil {
		return err
	}
	return fn(bridge)
}
