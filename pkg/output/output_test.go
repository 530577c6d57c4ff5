package output

import (
	"testing"
	"time"

	"github.com/ccollicutt/scrobblefix/pkg/config"
	"github.com/ccollicutt/scrobblefix/pkg/inspect"
	"github.com/ccollicutt/scrobblefix/pkg/logfile"
	"github.com/ccollicutt/scrobblefix/pkg/repair"
	"github.com/ccollicutt/scrobblefix/pkg/scrobble"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cfg
}

func createRepairReport(t *testing.T) *Report {
	t.Helper()
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	result := &repair.Result{
		Source: "scrobbler.log",
		Header: logfile.NewHeader(""),
		Records: []scrobble.Record{
			{Track: "one", Rating: scrobble.Listened, Timestamp: time.Unix(1690675200, 0)},
			{Track: "two", Rating: scrobble.Skipped, Timestamp: time.Unix(1200000000, 0)},
		},
		Failures: []*repair.LineError{{
			Source:  "scrobbler.log",
			LineNum: 6,
			Text:    "a\tb\tc\t1\t10\tX\t1\t",
			Err:     &scrobble.ParseError{Kind: scrobble.ErrInvalidRating, Field: "X"},
		}},
		Stats: repair.Stats{
			LinesRead: 3,
			Corrected: 1,
			Unchanged: 1,
			Failed:    1,
			StartTime: start,
			EndTime:   start.Add(1500 * time.Millisecond),
		},
	}
	return NewRepairReport([]*repair.Result{result}, testConfig(t))
}

func createInspectReport(t *testing.T) *Report {
	t.Helper()
	scan := &inspect.Report{
		Source:       "scrobbler.log",
		Header:       logfile.NewHeader(""),
		LinesRead:    6,
		Records:      5,
		Invalid:      map[string]int{"invalid_rating": 1},
		BeforeCutoff: 3,
		Earliest:     time.Unix(978300000, 0).UTC(),
		Latest:       time.Unix(1200000000, 0).UTC(),
		Runs: []inspect.Run{{
			FirstLine: 5,
			LastLine:  8,
			Count:     3,
			Earliest:  time.Unix(978300000, 0).UTC(),
			Latest:    time.Unix(978310800, 0).UTC(),
		}},
	}
	return NewInspectReport(scan, testConfig(t), time.Second)
}

func TestNewRepairReport(t *testing.T) {
	report := createRepairReport(t)

	s := report.Summary
	if s.LinesRead != 3 || s.Records != 2 || s.Corrected != 1 || s.Unchanged != 1 || s.Failed != 1 {
		t.Errorf("Summary = %+v", s)
	}
	if len(report.Failures) != 1 || report.Failures[0].Line != 6 {
		t.Fatalf("Failures = %+v", report.Failures)
	}
	if report.Metadata.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v", report.Metadata.Duration)
	}
	if report.Metadata.Client != logfile.DefaultClient {
		t.Errorf("Client = %q", report.Metadata.Client)
	}
	if report.Metadata.OffsetDays != 8245 || report.Metadata.Timezone != "UTC" {
		t.Errorf("Metadata = %+v", report.Metadata)
	}
	if !report.HasIssues() {
		t.Error("HasIssues() = false, want true")
	}
}

func TestNewRepairReport_MultipleResults(t *testing.T) {
	a := &repair.Result{Source: "a.log", Stats: repair.Stats{LinesRead: 2, Corrected: 2}}
	b := &repair.Result{Source: "b.log", Stats: repair.Stats{LinesRead: 3, Unchanged: 3}}

	report := NewRepairReport([]*repair.Result{a, b}, testConfig(t))
	if len(report.Metadata.Sources) != 2 {
		t.Errorf("Sources = %v", report.Metadata.Sources)
	}
	if report.Summary.LinesRead != 5 || report.Summary.Corrected != 2 || report.Summary.Unchanged != 3 {
		t.Errorf("Summary = %+v", report.Summary)
	}
	if report.HasIssues() {
		t.Error("HasIssues() = true for a clean repair")
	}
}

func TestNewInspectReport(t *testing.T) {
	report := createInspectReport(t)

	if report.Kind != KindInspect {
		t.Errorf("Kind = %q", report.Kind)
	}
	if report.Summary.BeforeCutoff != 3 || report.Summary.Unchanged != 2 || report.Summary.Failed != 1 {
		t.Errorf("Summary = %+v", report.Summary)
	}
	if report.Summary.Earliest == nil || report.Summary.Earliest.Unix() != 978300000 {
		t.Errorf("Earliest = %v", report.Summary.Earliest)
	}
	if len(report.Runs) != 1 || report.Runs[0].Count != 3 {
		t.Errorf("Runs = %+v", report.Runs)
	}
	if !report.HasIssues() {
		t.Error("HasIssues() = false, want true")
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"text", "json"} {
		f, err := NewFormatter(name, FormatOptions{})
		if err != nil {
			t.Fatalf("NewFormatter(%q) error = %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("Name() = %q, want %q", f.Name(), name)
		}
	}
	if _, err := NewFormatter("xml", FormatOptions{}); err == nil {
		t.Error("NewFormatter(xml) expected error")
	}
}
