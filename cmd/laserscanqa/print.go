package main

import (
	"fmt"
	"io"

	"codeberg.org/mutker/laserscanqa/internal/report"
)

func printReport(w io.Writer, r *report.Report) {
	fmt.Fprintln(w, "Quality Assessment Results:")
	fmt.Fprintf(w, "Overall Quality: %.2f\n", float64(r.Summary.OverallQuality))
	fmt.Fprintf(w, "Total Points: %d\n", r.Summary.TotalPoints)
	fmt.Fprintf(w, "Processing Time: %.2fs\n", float64(r.Summary.ProcessingTime))

	fmt.Fprintln(w, "\nDetailed Metrics:")
	for _, m := range r.DetailedMetrics.Named() {
		if m.Threshold != nil {
			fmt.Fprintf(w, "%s: %.3f (%s, threshold %g)\n", m.Name, float64(m.Value), m.Status, float64(*m.Threshold))
			continue
		}
		fmt.Fprintf(w, "%s: %.3f (%s)\n", m.Name, float64(m.Value), m.Status)
	}
}

func printVerdict(w io.Writer, r *report.Report) {
	if r.MeetsStandards() {
		fmt.Fprintln(w, "Scan meets all quality standards")
		return
	}
	fmt.Fprintln(w, "Scan does not meet all quality standards")
}
