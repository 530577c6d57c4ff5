package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ccollicutt/scrobblefix/internal/cli"
	"github.com/ccollicutt/scrobblefix/internal/cli/commands"
)

// requireFile fails the test if the required test file doesn't exist.
// We never skip tests - missing test data is a test failure.
func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Required test file not found: %s", path)
	}
}

func run(t *testing.T, args ...string) (string, string) {
	t.Helper()
	t.Setenv("SCROBBLEFIX_TIMEZONE", "UTC")
	commands.ExitCode = 0

	cmd := cli.NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("scrobblefix %v: %v\n%s", args, err, stderr.String())
	}
	return stdout.String(), stderr.String()
}

// TestE2E_Fix repairs a log from a player whose clock reset mid-session and
// compares the result with the expected log.
func TestE2E_Fix(t *testing.T) {
	input := filepath.Join("testdata", "scrobbler.log")
	golden := filepath.Join("testdata", "scrobbler.fixed.log")
	requireFile(t, input)
	requireFile(t, golden)

	outPath := filepath.Join(t.TempDir(), "scrobbler.log")
	stdout, _ := run(t, "fix", "--report", "json", "-o", outPath, input)

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read repaired log: %v", err)
	}
	want, err := os.ReadFile(golden)
	if err != nil {
		t.Fatalf("Failed to read golden file: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Repaired log mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}

	var report struct {
		Summary struct {
			Corrected int `json:"corrected"`
			Unchanged int `json:"unchanged"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if report.Summary.Corrected != 4 || report.Summary.Unchanged != 3 {
		t.Errorf("Unexpected summary: %+v", report.Summary)
	}
	if commands.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", commands.ExitCode)
	}
}

// TestE2E_FixIsStable checks that repairing a repaired log changes nothing.
func TestE2E_FixIsStable(t *testing.T) {
	golden := filepath.Join("testdata", "scrobbler.fixed.log")
	requireFile(t, golden)

	stdout, _ := run(t, "fix", "-q", golden)

	want, err := os.ReadFile(golden)
	if err != nil {
		t.Fatalf("Failed to read golden file: %v", err)
	}
	if stdout != string(want) {
		t.Errorf("Second repair changed the log:\n%s", stdout)
	}
}

func TestE2E_Inspect(t *testing.T) {
	input := filepath.Join("testdata", "scrobbler.log")
	requireFile(t, input)

	stdout, _ := run(t, "inspect", "-o", "json", input)

	var report struct {
		Summary struct {
			Records      int `json:"records"`
			BeforeCutoff int `json:"before_cutoff"`
		} `json:"summary"`
		Runs []struct {
			FirstLine int `json:"first_line"`
			LastLine  int `json:"last_line"`
			Count     int `json:"count"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}

	if report.Summary.Records != 7 || report.Summary.BeforeCutoff != 4 {
		t.Errorf("Unexpected summary: %+v", report.Summary)
	}
	if len(report.Runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(report.Runs))
	}
	if r := report.Runs[0]; r.FirstLine != 7 || r.LastLine != 10 || r.Count != 4 {
		t.Errorf("Unexpected run: %+v", r)
	}
	if commands.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", commands.ExitCode)
	}
}

func TestE2E_Merge(t *testing.T) {
	input := filepath.Join("testdata", "scrobbler.log")
	golden := filepath.Join("testdata", "scrobbler.fixed.log")
	requireFile(t, input)

	// The repaired log is already chronological, so merging it with the
	// broken original yields every record twice, in pairs.
	stdout, _ := run(t, "merge", "-q", input, golden)

	fixed, err := os.ReadFile(golden)
	if err != nil {
		t.Fatalf("Failed to read golden file: %v", err)
	}
	lines := bytes.Split(bytes.TrimSuffix(fixed, []byte("\n")), []byte("\n"))

	var want bytes.Buffer
	for i, line := range lines {
		want.Write(line)
		want.WriteByte('\n')
		if i >= 3 {
			want.Write(line)
			want.WriteByte('\n')
		}
	}
	if stdout != want.String() {
		t.Errorf("Merged log mismatch\ngot:\n%s\nwant:\n%s", stdout, want.String())
	}
}
