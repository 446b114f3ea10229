package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zkan/netlab/internal/integration"
	"github.com/zkan/netlab/internal/machine"
	"github.com/zkan/netlab/internal/pubsub"
)

var machineCmd = &cobra.Command{
	Use:   "machine",
	Short: "Print the machine's network identity and record a snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		info, err := machine.Collect()
		if err != nil {
			return err
		}

		fmt.Printf("Hostname:   %s\n", info.Hostname)
		fmt.Printf("Primary IP: %s\n", info.IPAddress)

		names := make([]string, 0, len(info.Interfaces))
		for name := range info.Interfaces {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s:\n", name)
			for _, addr := range info.Interfaces[name] {
				fmt.Printf("    %s\n", addr)
			}
		}

		return withBus(ctx, func(pub pubsub.Publisher) error {
			return integration.Publish(ctx, pub, integration.TopicMachineInfo, "machine", integration.MachineInfoEvent{
				Hostname:   info.Hostname,
				IPAddress:  info.IPAddress,
				Interfaces: info.Interfaces,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(machineCmd)
}
