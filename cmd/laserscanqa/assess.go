package main

import (
	"fmt"

	"codeberg.org/mutker/laserscanqa/internal/batch"
	"codeberg.org/mutker/laserscanqa/internal/pointcloud"
	"github.com/spf13/cobra"
)

const defaultReportFile = "scan_quality_report.json"

var (
	referencePath string
	outputPath    string
)

var assessCmd = &cobra.Command{
	Use:   "assess <scan.csv>",
	Short: "Assess a single scan",
	Long: `Assess a single point cloud, print the results and save
the quality report as JSON`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []batch.Option
		if referencePath != "" {
			ref, err := pointcloud.Load(referencePath)
			if err != nil {
				return err
			}
			opts = append(opts, batch.WithReference(ref))
		}

		coord, rec, err := newCoordinator(cfg, opts...)
		if err != nil {
			return err
		}
		defer closeRecorder(rec)

		rep, err := coord.AssessFile(cmd.Context(), args[0], outputPath)
		if rep != nil {
			printReport(cmd.OutOrStdout(), rep)
		}
		if err != nil {
			return err
		}

		if outputPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport saved to %s\n", outputPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)
	assessCmd.Flags().StringVarP(&referencePath, "reference", "r", "",
		"reference point cloud to measure geometric accuracy against")
	assessCmd.Flags().StringVarP(&outputPath, "output", "o", defaultReportFile,
		"path of the JSON report, empty to skip saving")
}
