package main

import (
	"fmt"
	"os"

	"codeberg.org/mutker/laserscanqa/internal/batch"
	"codeberg.org/mutker/laserscanqa/internal/logger"
	"codeberg.org/mutker/laserscanqa/internal/pointcloud"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var recursive bool

var batchCmd = &cobra.Command{
	Use:   "batch <scan.csv|dir>...",
	Short: "Assess many scans",
	Long: `Assess every given scan, expanding directories to the .csv
files they contain, and write one report per scan`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandPaths(args, recursive)
		if err != nil {
			return err
		}

		bar := progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetVisibility(!logger.IsService()),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan][reset] Assessing scans..."),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)

		coord, rec, err := newCoordinator(cfg, batch.WithProgress(func(batch.FileResult) {
			bar.Add(1)
		}))
		if err != nil {
			return err
		}
		defer closeRecorder(rec)

		outputDir := cfg.GetOutputDir()
		result, err := coord.Process(cmd.Context(), paths, outputDir)
		bar.Finish()
		if result != nil {
			printBatch(cmd, result, outputDir)
		}
		return err
	},
}

func expandPaths(args []string, recursive bool) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// Missing or unsupported files are reported per file by the batch.
			paths = append(paths, arg)
			continue
		}

		found, err := pointcloud.Discover(arg, recursive)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func printBatch(cmd *cobra.Command, result *batch.Result, outputDir string) {
	w := cmd.OutOrStdout()

	for _, f := range result.Files {
		switch f.Status {
		case batch.StatusOK:
			fmt.Fprintf(w, "%-12s %s -> %s (quality %.2f)\n",
				f.Status, f.Path, f.ReportPath, float64(f.Report.Summary.OverallQuality))
		default:
			fmt.Fprintf(w, "%-12s %s: %v\n", f.Status, f.Path, f.Err)
		}
	}

	fmt.Fprintf(w, "\nGenerated %d reports in %s (run %s)\n", len(result.Reports), outputDir, result.RunID)
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().String("output-dir", "reports", "directory for the generated reports")
	batchCmd.Flags().BoolVarP(&recursive, "recursive", "R", false,
		"search directories recursively")
}
