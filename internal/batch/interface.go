package batch

import (
	"codeberg.org/mutker/laserscanqa/internal/report"
)

// FileStatus is the outcome for one requested path.
type FileStatus string

const (
	StatusOK          FileStatus = "ok"
	StatusSkipped     FileStatus = "skipped"      // not loadable, no report
	StatusFailed      FileStatus = "failed"       // loaded but not assessed
	StatusWriteFailed FileStatus = "write_failed" // assessed, report file not written
)

type FileResult struct {
	Path       string
	ReportPath string
	Status     FileStatus
	Report     *report.Report
	Err        error
}

// Result describes one batch run. Reports holds the generated reports in
// input order; Files has one entry per requested path.
type Result struct {
	RunID   string
	Reports []*report.Report
	Files   []FileResult
}

// Count returns how many files ended with status.
func (r *Result) Count(status FileStatus) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// Problems returns the files that did not finish with StatusOK.
func (r *Result) Problems() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Status != StatusOK {
			out = append(out, f)
		}
	}
	return out
}
