package main

import (
	"codeberg.org/mutker/laserscanqa/internal/report"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <report.json>",
	Short: "Print a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := report.Load(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		printReport(w, rep)
		w.Write([]byte("\n"))
		printVerdict(w, rep)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
