package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zkan/netlab/internal/integration"
	"github.com/zkan/netlab/internal/pubsub"
	"github.com/zkan/netlab/internal/sntp"
)

var (
	timecheckServer  string
	timecheckTimeout time.Duration
)

var timecheckCmd = &cobra.Command{
	Use:   "timecheck",
	Short: "Query an SNTP server and compare against the local clock",
	Long: `Sends a single SNTP request over UDP port 123, prints the server's
time next to the local clock, and records the difference in the
integration log. One request, one reply, no retries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := timecheckServer
		if server == "" {
			server = cfg.NTPServer
		}

		ctx, stop := signalContext()
		defer stop()

		return withBus(ctx, func(pub pubsub.Publisher) error {
			client := &sntp.Client{Server: server, Timeout: timecheckTimeout}
			result, err := client.Query(ctx)
			if err != nil {
				if errors.Is(err, sntp.ErrTimeout) {
					fmt.Println("No reply from the time server. UDP port 123 is often blocked; try another network or server.")
				}
				integration.Publish(ctx, pub, integration.TopicSocketError, "sntp", integration.SocketErrorEvent{
					ErrorType:    "timeout",
					ErrorMessage: err.Error(),
					Module:       "sntp",
					Port:         123,
				})
				return err
			}

			fmt.Printf("Server %s\n", result.Server)
			fmt.Printf("Server time: %s\n", result.ServerTime.Format(time.RFC3339))
			fmt.Printf("Local time:  %s\n", result.LocalTime.Format(time.RFC3339))
			fmt.Printf("Difference:  %s\n", result.Offset)

			return integration.Publish(ctx, pub, integration.TopicSNTPCheck, "sntp", integration.SNTPCheckEvent{
				Server:         result.Server,
				ServerTime:     result.ServerTime.Format(time.RFC3339),
				LocalTime:      result.LocalTime.Format(time.RFC3339),
				TimeDifference: result.Offset.Seconds(),
			})
		})
	},
}

func init() {
	timecheckCmd.Flags().StringVar(&timecheckServer, "server", "", "SNTP server (defaults to NETLAB_NTP_SERVER)")
	timecheckCmd.Flags().DurationVar(&timecheckTimeout, "timeout", sntp.DefaultTimeout, "reply timeout")
	rootCmd.AddCommand(timecheckCmd)
}
