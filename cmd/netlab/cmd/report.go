package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var pruneDays int

var reportCmd = &cobra.Command{
	Use:       "report [echo|timesync|errors|summary]",
	Short:     "Analyze the integration log",
	Long:      `Prints an aggregate view of the recorded results as JSON. Without an argument it prints the record counts per category.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"echo", "timesync", "errors", "summary"},
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()

		section := "summary"
		if len(args) == 1 {
			section = args[0]
		}

		var report any
		switch section {
		case "echo":
			report = store.AnalyzeEchoTests()
		case "timesync":
			report = store.AnalyzeTimeSync()
		case "errors":
			report = store.AnalyzeErrors()
		case "summary":
			report = store.Summarize()
		default:
			return fmt.Errorf("unknown report %q", section)
		}

		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old records from the integration log",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		store.Prune(pruneDays)
		fmt.Printf("Removed records older than %d days.\n", pruneDays)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a copy of the integration log",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var target string
		if len(args) == 1 {
			target = args[0]
		}

		path, err := openStore().Export(target)
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

func init() {
	pruneCmd.Flags().IntVar(&pruneDays, "days", 30, "keep records newer than this many days")
	rootCmd.AddCommand(reportCmd, pruneCmd, exportCmd)
}
