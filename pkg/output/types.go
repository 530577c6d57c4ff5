// Package output provides formatting and output generation for repair and
// inspection results.
package output

import (
	"sort"
	"time"

	"github.com/ccollicutt/scrobblefix/pkg/config"
	"github.com/ccollicutt/scrobblefix/pkg/inspect"
	"github.com/ccollicutt/scrobblefix/pkg/repair"
)

// Kind names the command a report was produced by.
type Kind string

const (
	KindRepair  Kind = "repair"
	KindInspect Kind = "inspect"
)

// Report is the complete command output.
type Report struct {
	Kind     Kind           `json:"kind"`
	Summary  Summary        `json:"summary"`
	Failures []Failure      `json:"failures,omitempty"`
	Invalid  map[string]int `json:"invalid,omitempty"`
	Runs     []Run          `json:"runs,omitempty"`
	Metadata Metadata       `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// LinesRead is the number of record lines examined.
	LinesRead int `json:"lines_read"`

	// Records is the number of lines that parsed.
	Records int `json:"records"`

	// Corrected is the number of records whose timestamp was shifted.
	Corrected int `json:"corrected"`

	// Unchanged is the number of records left as they were.
	Unchanged int `json:"unchanged"`

	// Failed is the number of lines that could not be parsed or corrected.
	Failed int `json:"failed"`

	// BeforeCutoff is the number of records dated before the cutoff.
	BeforeCutoff int `json:"before_cutoff"`

	// Earliest and Latest bound the record timestamps (inspect only).
	Earliest *time.Time `json:"earliest,omitempty"`
	Latest   *time.Time `json:"latest,omitempty"`
}

// Failure describes a line that could not be repaired.
type Failure struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Error  string `json:"error"`
	Text   string `json:"text,omitempty"`
}

// Run is a contiguous stretch of records dated before the cutoff.
type Run struct {
	FirstLine int       `json:"first_line"`
	LastLine  int       `json:"last_line"`
	Count     int       `json:"count"`
	Earliest  time.Time `json:"earliest"`
	Latest    time.Time `json:"latest"`
}

// Metadata provides context about the run.
type Metadata struct {
	// Sources lists the log files that were read.
	Sources []string `json:"sources"`

	// Client is the #CLIENT value of the (first) input log.
	Client string `json:"client,omitempty"`

	// Cutoff is the first instant considered correct.
	Cutoff time.Time `json:"cutoff"`

	// OffsetDays is the shift applied to records before the cutoff.
	OffsetDays int `json:"offset_days"`

	// Timezone is the reference zone for parsing and day arithmetic.
	Timezone string `json:"timezone"`

	// AnalyzedAt is when the run completed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

func newMetadata(cfg *config.Config) Metadata {
	return Metadata{
		Cutoff:     cfg.CutoffTime(),
		OffsetDays: cfg.OffsetDays,
		Timezone:   cfg.Location().String(),
	}
}

// NewRepairReport creates a Report from one or more repair results.
func NewRepairReport(results []*repair.Result, cfg *config.Config) *Report {
	report := &Report{
		Kind:     KindRepair,
		Metadata: newMetadata(cfg),
	}

	var start, end time.Time
	for i, res := range results {
		report.Metadata.Sources = append(report.Metadata.Sources, res.Source)
		if i == 0 {
			report.Metadata.Client = res.Header.Client
			start, end = res.Stats.StartTime, res.Stats.EndTime
		}
		if res.Stats.StartTime.Before(start) {
			start = res.Stats.StartTime
		}
		if res.Stats.EndTime.After(end) {
			end = res.Stats.EndTime
		}

		report.Summary.LinesRead += res.Stats.LinesRead
		report.Summary.Records += len(res.Records)
		report.Summary.Corrected += res.Stats.Corrected
		report.Summary.Unchanged += res.Stats.Unchanged
		report.Summary.Failed += res.Stats.Failed
		report.Summary.BeforeCutoff += res.Stats.Corrected

		for _, f := range res.Failures {
			report.Failures = append(report.Failures, Failure{
				Source: f.Source,
				Line:   f.LineNum,
				Error:  f.Err.Error(),
				Text:   f.Text,
			})
		}
	}

	report.Metadata.AnalyzedAt = end
	report.Metadata.Duration = end.Sub(start)

	return report
}

// NewInspectReport creates a Report from a scan.
func NewInspectReport(scan *inspect.Report, cfg *config.Config, duration time.Duration) *Report {
	report := &Report{
		Kind: KindInspect,
		Summary: Summary{
			LinesRead:    scan.LinesRead,
			Records:      scan.Records,
			Failed:       scan.InvalidLines(),
			BeforeCutoff: scan.BeforeCutoff,
			Unchanged:    scan.Records - scan.BeforeCutoff,
		},
		Metadata: newMetadata(cfg),
	}
	report.Metadata.Sources = []string{scan.Source}
	report.Metadata.Client = scan.Header.Client
	report.Metadata.AnalyzedAt = time.Now()
	report.Metadata.Duration = duration

	if scan.Records > 0 {
		earliest, latest := scan.Earliest, scan.Latest
		report.Summary.Earliest = &earliest
		report.Summary.Latest = &latest
	}

	if len(scan.Invalid) > 0 {
		report.Invalid = scan.Invalid
	}

	for _, r := range scan.Runs {
		report.Runs = append(report.Runs, Run(r))
	}

	return report
}

// HasIssues returns true if lines failed or, for inspections, any record
// needs correcting.
func (r *Report) HasIssues() bool {
	if r.Summary.Failed > 0 {
		return true
	}
	return r.Kind == KindInspect && r.Summary.BeforeCutoff > 0
}

// invalidKinds returns the invalid-line kinds in stable order.
func (r *Report) invalidKinds() []string {
	kinds := make([]string, 0, len(r.Invalid))
	for k := range r.Invalid {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
