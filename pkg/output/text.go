package output

import (
	"context"
	"fmt"
	"io"
	"time"
)

// timeLayout renders record timestamps in reports.
const timeLayout = "2006-01-02 15:04:05 MST"

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	if report.Kind == KindInspect {
		return f.formatInspect(report, w)
	}
	return f.formatRepair(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	s := report.Summary
	if report.Kind == KindInspect {
		_, err := fmt.Fprintf(w, "scrobblefix: %d records, %d before cutoff, %d invalid\n",
			s.Records, s.BeforeCutoff, s.Failed)
		return err
	}
	_, err := fmt.Fprintf(w, "scrobblefix: %d corrected, %d unchanged, %d failed\n",
		s.Corrected, s.Unchanged, s.Failed)
	return err
}

func (f *TextFormatter) formatRepair(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== scrobblefix Repair Report ===")
	fmt.Fprintln(w)

	f.formatPolicy(report, w)

	if len(report.Failures) > 0 {
		fmt.Fprintf(w, "Failed lines: %d\n", len(report.Failures))
		for _, fl := range report.Failures {
			fmt.Fprintf(w, "  - %s:%d: %s\n", fl.Source, fl.Line, fl.Error)
			if f.opts.Verbose && fl.Text != "" {
				fmt.Fprintf(w, "    Line: %q\n", fl.Text)
			}
		}
		fmt.Fprintln(w)
	}

	s := report.Summary
	fmt.Fprintln(w, "---")
	_, err := fmt.Fprintf(w, "Summary: %d records corrected, %d unchanged, %d failed\n",
		s.Corrected, s.Unchanged, s.Failed)
	if err != nil {
		return err
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Lines processed: %d\n", s.LinesRead)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}

	return nil
}

func (f *TextFormatter) formatInspect(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== scrobblefix Inspection Report ===")
	fmt.Fprintln(w)

	f.formatPolicy(report, w)

	s := report.Summary
	fmt.Fprintf(w, "Records: %d\n", s.Records)
	if s.Earliest != nil && s.Latest != nil {
		fmt.Fprintf(w, "  Earliest: %s\n", s.Earliest.Format(timeLayout))
		fmt.Fprintf(w, "  Latest:   %s\n", s.Latest.Format(timeLayout))
	}
	if s.Failed > 0 {
		fmt.Fprintf(w, "Invalid lines: %d\n", s.Failed)
		for _, kind := range report.invalidKinds() {
			fmt.Fprintf(w, "  - %s: %d\n", kind, report.Invalid[kind])
		}
	}
	fmt.Fprintln(w)

	if len(report.Runs) == 0 {
		fmt.Fprintln(w, "No records before the cutoff")
	} else {
		fmt.Fprintf(w, "Before cutoff: %d record(s) in %d run(s)\n", s.BeforeCutoff, len(report.Runs))
		for _, r := range report.Runs {
			fmt.Fprintf(w, "  - lines %d-%d: %d record(s), %s .. %s\n",
				r.FirstLine, r.LastLine, r.Count,
				r.Earliest.Format(timeLayout), r.Latest.Format(timeLayout))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "---")
	_, err := fmt.Fprintf(w, "Summary: %d records, %d before cutoff, %d invalid\n",
		s.Records, s.BeforeCutoff, s.Failed)
	return err
}

func (f *TextFormatter) formatPolicy(report *Report, w io.Writer) {
	m := report.Metadata
	for _, src := range m.Sources {
		fmt.Fprintf(w, "Source: %s\n", src)
	}
	if m.Client != "" {
		fmt.Fprintf(w, "Client: %s\n", m.Client)
	}
	fmt.Fprintf(w, "Cutoff: %s (offset %d days, zone %s)\n",
		m.Cutoff.Format(time.RFC3339), m.OffsetDays, m.Timezone)
	fmt.Fprintln(w)
}
