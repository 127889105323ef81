package main

import (
	"fmt"
	"time"

	"codeberg.org/mutker/laserscanqa/internal/pointcloud"
	"github.com/spf13/cobra"
)

var (
	sampleDir  string
	sampleSeed int64
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write synthetic sample scans",
	Long: `Write good, medium and poor synthetic point clouds for
trying out the assessment`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		seed := sampleSeed
		if !cmd.Flags().Changed("seed") {
			seed = time.Now().UnixNano()
		}

		paths, err := pointcloud.WriteSamples(sampleDir, seed)
		if err != nil {
			return err
		}

		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().StringVarP(&sampleDir, "dir", "d", "data", "directory for the sample scans")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (default is time based)")
}
