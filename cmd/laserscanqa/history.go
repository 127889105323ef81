package main

import (
	"fmt"
	"time"

	"codeberg.org/mutker/laserscanqa/internal/history"
	"codeberg.org/mutker/laserscanqa/internal/logger"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent assessments",
	Long: `List assessments recorded in the history database.
Recording is enabled with --history or history = true in the config file`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := cmd.OutOrStdout()

		hcfg := cfg.HistoryConfig()
		// Reading never needs the recording switch
		hcfg.Enabled = true

		rec, err := history.NewService(hcfg, logger.Get())
		if err != nil {
			return err
		}
		defer closeRecorder(rec)

		snapshots, err := rec.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			fmt.Fprintln(w, "No assessments recorded")
			return nil
		}

		for _, s := range snapshots {
			fmt.Fprintf(w, "%s  %-8.8s  %.2f  %7d pts  %s\n",
				s.Timestamp.Local().Format(time.DateTime), s.RunID, s.OverallQuality, s.PointCount, s.Source)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of assessments to list, 0 for all")
}
