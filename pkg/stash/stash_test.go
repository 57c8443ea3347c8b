package stash

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/aASDa213ASD/noiseless/models"
	"github.com/aASDa213ASD/noiseless/pkg/progress"
)

func newTestStash(t *testing.T) (*Stash, *models.Config) {
	t.Helper()
	cfg := &models.Config{DataRoot: t.TempDir(), MaxWorkers: 4}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	s, err := New(logger, cfg)
	if err != nil {
		t.Fatalf("failed to create stash: %v", err)
	}
	return s, cfg
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const sampleLog = "ERROR disk full\nINFO started\nERROR timeout\nERROR retry\nWARN low memory\n"

func TestGetInfo_MissingFile(t *testing.T) {
	s, cfg := newTestStash(t)

	_, err := s.GetInfo(filepath.Join(cfg.DataRoot, "nope.log"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetInfo_ReportsLines(t *testing.T) {
	s, cfg := newTestStash(t)
	logPath := writeTestFile(t, cfg.LogsDir(), "app.log", sampleLog)

	info, err := s.GetInfo(logPath)
	if err != nil {
		t.Fatalf("failed to get info: %v", err)
	}
	if info.Lines != 5 {
		t.Errorf("expected 5 lines, got %d", info.Lines)
	}
	if info.FileName != "app.log" {
		t.Errorf("expected file name app.log, got %q", info.FileName)
	}
}

func TestFilter_CountsAndArtifacts(t *testing.T) {
	s, cfg := newTestStash(t)
	logPath := writeTestFile(t, cfg.LogsDir(), "app.log", sampleLog)
	filterPath := writeTestFile(t, cfg.FiltersDir(), "keys.json", `{"ERROR": true, "WARN": true}`)

	outcome, err := s.Filter(logPath, filterPath, false, progress.Discard)
	if err != nil {
		t.Fatalf("failed to filter: %v", err)
	}

	if outcome.Hits.Total != 4 {
		t.Errorf("expected total 4, got %d", outcome.Hits.Total)
	}
	if outcome.Hits.ByKey["ERROR"] != 3 || outcome.Hits.ByKey["WARN"] != 1 {
		t.Errorf("unexpected per-key hits: %v", outcome.Hits.ByKey)
	}
	if outcome.FailedPartitions != 0 {
		t.Errorf("expected no failed partitions, got %d", outcome.FailedPartitions)
	}

	wantDir := filepath.Join(cfg.FilteredDir(), "app")
	if outcome.OutputDir != wantDir {
		t.Errorf("expected output dir %q, got %q", wantDir, outcome.OutputDir)
	}

	namePattern := regexp.MustCompile(`^app_\d{8}_\d{6}(_\d+)?\.filtered\.log$`)
	if !namePattern.MatchString(filepath.Base(outcome.FilteredLog)) {
		t.Errorf("unexpected filtered log name %q", filepath.Base(outcome.FilteredLog))
	}

	filtered, err := os.ReadFile(outcome.FilteredLog)
	if err != nil {
		t.Fatalf("failed to read filtered log: %v", err)
	}
	want := "ERROR disk full\nERROR timeout\nERROR retry\nWARN low memory\n"
	if string(filtered) != want {
		t.Errorf("filtered log mismatch:\nwant %q\ngot  %q", want, filtered)
	}
}

func TestFilter_MetadataContent(t *testing.T) {
	s, cfg := newTestStash(t)
	logPath := writeTestFile(t, cfg.LogsDir(), "app.log", sampleLog)
	filterPath := writeTestFile(t, cfg.FiltersDir(), "keys.json", `{"ERROR": true, "WARN": true}`)

	outcome, err := s.Filter(logPath, filterPath, false, progress.Discard)
	if err != nil {
		t.Fatalf("failed to filter: %v", err)
	}

	raw, err := os.ReadFile(outcome.MetadataFile)
	if err != nil {
		t.Fatalf("failed to read metadata: %v", err)
	}

	var decoded models.FilterOutcome
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if decoded.Hits.Total != 4 {
		t.Errorf("expected metadata total 4, got %d", decoded.Hits.Total)
	}
	if decoded.Meta.Filter != "keys.json" {
		t.Errorf("expected filter name keys.json, got %q", decoded.Meta.Filter)
	}
	if decoded.Meta.File.Lines != 5 {
		t.Errorf("expected source line count 5, got %d", decoded.Meta.File.Lines)
	}
	if decoded.Meta.File.FileName != "app.log" {
		t.Errorf("expected source file name app.log, got %q", decoded.Meta.File.FileName)
	}
	if len(decoded.Meta.File.Hash) != 32 {
		t.Errorf("expected 32-char fingerprint, got %q", decoded.Meta.File.Hash)
	}

	text := string(raw)
	if !strings.Contains(text, "    \"hits\"") {
		t.Error("expected metadata to be indented with four spaces")
	}
	totalIdx := strings.Index(text, `"total"`)
	errorIdx := strings.Index(text, `"ERROR"`)
	if totalIdx == -1 || errorIdx == -1 || totalIdx > errorIdx {
		t.Error("expected total to precede per-key hits in metadata")
	}
}

func TestFilter_TieBreakGoesToSmallerKey(t *testing.T) {
	s, cfg := newTestStash(t)
	logPath := writeTestFile(t, cfg.LogsDir(), "app.log", "ERROR boom\n")
	filterPath := writeTestFile(t, cfg.FiltersDir(), "keys.json", `{"ERROR": true, "ERR": true}`)

	outcome, err := s.Filter(logPath, filterPath, false, progress.Discard)
	if err != nil {
		t.Fatalf("failed to filter: %v", err)
	}
	if outcome.Hits.Total != 1 {
		t.Fatalf("expected total 1, got %d", outcome.Hits.Total)
	}
	if outcome.Hits.ByKey["ERR"] != 1 {
		t.Errorf("expected ERR to claim the line, got %v", outcome.Hits.ByKey)
	}
	if outcome.Hits.ByKey["ERROR"] != 0 {
		t.Errorf("expected ERROR to stay at 0, got %v", outcome.Hits.ByKey)
	}
}

func TestFilter_MissingLog(t *testing.T) {
	s, cfg := newTestStash(t)
	filterPath := writeTestFile(t, cfg.FiltersDir(), "keys.json", `{"ERROR": true}`)

	_, err := s.Filter(filepath.Join(cfg.DataRoot, "nope.log"), filterPath, false, progress.Discard)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "log file") {
		t.Errorf("expected the error to name the log file, got %q", err)
	}
}

func TestFilter_MissingFilter(t *testing.T) {
	s, cfg := newTestStash(t)
	logPath := writeTestFile(t, cfg.LogsDir(), "app.log", sampleLog)

	_, err := s.Filter(logPath, filepath.Join(cfg.DataRoot, "nope.json"), false, progress.Discard)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "filter file") {
		t.Errorf("expected the error to name the filter file, got %q", err)
	}
}

func TestFilter_InvalidFilterWritesNothing(t *testing.T) {
	s, cfg := newTestStash(t)
	logPath := writeTestFile(t, cfg.LogsDir(), "app.log", sampleLog)
	filterPath := writeTestFile(t, cfg.FiltersDir(), "bad.json", `{not json`)

	_, err := s.Filter(logPath, filterPath, false, progress.Discard)
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}

	if _, statErr := os.Stat(filepath.Join(cfg.FilteredDir(), "app")); !os.IsNotExist(statErr) {
		t.Error("expected no run directory after a failed validation")
	}
}

func TestFilter_EmptyFilterWritesNothing(t *testing.T) {
	s, cfg := newTestStash(t)
	logPath := writeTestFile(t, cfg.LogsDir(), "app.log", sampleLog)
	filterPath := writeTestFile(t, cfg.FiltersDir(), "empty.json", `{}`)

	_, err := s.Filter(logPath, filterPath, false, progress.Discard)
	if !errors.Is(err, ErrEmptyFilter) {
		t.Fatalf("expected ErrEmptyFilter, got %v", err)
	}

	if _, statErr := os.Stat(filepath.Join(cfg.FilteredDir(), "app")); !os.IsNotExist(statErr) {
		t.Error("expected no run directory after an empty filter")
	}
}

func TestFilter_EmptyFilterBeatsOutputConflict(t *testing.T) {
	s, cfg := newTestStash(t)
	logPath := writeTestFile(t, cfg.LogsDir(), "app.log", sampleLog)
	filterPath := writeTestFile(t, cfg.FiltersDir(), "empty.json", `{}`)

	if err := os.MkdirAll(filepath.Join(cfg.FilteredDir(), "app"), 0750); err != nil {
		t.Fatalf("failed to pre-create run dir: %v", err)
	}

	_, err := s.Filter(logPath, filterPath, false, progress.Discard)
	if !errors.Is(err, ErrEmptyFilter) {
		t.Errorf("expected ErrEmptyFilter before the conflict check, got %v", err)
	}
}

func TestFilter_OutputConflictAndOverwrite(t *testing.T) {
	s, cfg := newTestStash(t)
	logPath := writeTestFile(t, cfg.LogsDir(), "app.log", sampleLog)
	filterPath := writeTestFile(t, cfg.FiltersDir(), "keys.json", `{"ERROR": true, "WARN": true}`)

	first, err := s.Filter(logPath, filterPath, false, progress.Discard)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	_, err = s.Filter(logPath, filterPath, false, progress.Discard)
	if !errors.Is(err, ErrOutputConflict) {
		t.Fatalf("expected ErrOutputConflict on second run, got %v", err)
	}

	entries, err := os.ReadDir(first.OutputDir)
	if err != nil {
		t.Fatalf("failed to list run dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected the refused run to leave 2 artifacts untouched, found %d", len(entries))
	}

	second, err := s.Filter(logPath, filterPath, true, progress.Discard)
	if err != nil {
		t.Fatalf("overwrite run failed: %v", err)
	}
	if second.Hits.Total != first.Hits.Total {
		t.Errorf("expected identical hits across runs, got %d and %d", first.Hits.Total, second.Hits.Total)
	}

	entries, err = os.ReadDir(first.OutputDir)
	if err != nil {
		t.Fatalf("failed to list run dir: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("expected 4 artifacts after the overwrite run, found %d", len(entries))
	}
}

func TestFilter_EmptyLogFile(t *testing.T) {
	s, cfg := newTestStash(t)
	logPath := writeTestFile(t, cfg.LogsDir(), "empty.log", "")
	filterPath := writeTestFile(t, cfg.FiltersDir(), "keys.json", `{"ERROR": true}`)

	outcome, err := s.Filter(logPath, filterPath, false, progress.Discard)
	if err != nil {
		t.Fatalf("failed to filter empty log: %v", err)
	}
	if outcome.Hits.Total != 0 {
		t.Errorf("expected 0 hits, got %d", outcome.Hits.Total)
	}
	if outcome.Meta.File.Lines != 0 {
		t.Errorf("expected 0 source lines, got %d", outcome.Meta.File.Lines)
	}

	filtered, err := os.ReadFile(outcome.FilteredLog)
	if err != nil {
		t.Fatalf("expected an empty filtered log to exist: %v", err)
	}
	if len(filtered) != 0 {
		t.Errorf("expected empty filtered log, got %q", filtered)
	}
}

func TestFilter_UnterminatedLastLine(t *testing.T) {
	s, cfg := newTestStash(t)
	logPath := writeTestFile(t, cfg.LogsDir(), "app.log", "ERROR a\nERROR b")
	filterPath := writeTestFile(t, cfg.FiltersDir(), "keys.json", `{"ERROR": true}`)

	outcome, err := s.Filter(logPath, filterPath, false, progress.Discard)
	if err != nil {
		t.Fatalf("failed to filter: %v", err)
	}
	if outcome.Hits.Total != 2 {
		t.Errorf("expected 2 hits, got %d", outcome.Hits.Total)
	}
	if outcome.Meta.File.Lines != 2 {
		t.Errorf("expected 2 source lines, got %d", outcome.Meta.File.Lines)
	}

	filtered, err := os.ReadFile(outcome.FilteredLog)
	if err != nil {
		t.Fatalf("failed to read filtered log: %v", err)
	}
	if string(filtered) != "ERROR a\nERROR b" {
		t.Errorf("expected terminators preserved as-is, got %q", filtered)
	}
}

func TestFilter_SumOfHitsEqualsTotal(t *testing.T) {
	s, cfg := newTestStash(t)

	var sb strings.Builder
	for i := 0; i < 200; i++ {
		switch i % 3 {
		case 0:
			sb.WriteString("ERROR something\n")
		case 1:
			sb.WriteString("WARN something\n")
		default:
			sb.WriteString("nothing here\n")
		}
	}
	logPath := writeTestFile(t, cfg.LogsDir(), "big.log", sb.String())
	filterPath := writeTestFile(t, cfg.FiltersDir(), "keys.json", `{"ERROR": true, "WARN": true}`)

	outcome, err := s.Filter(logPath, filterPath, false, progress.Discard)
	if err != nil {
		t.Fatalf("failed to filter: %v", err)
	}

	sum := 0
	for _, n := range outcome.Hits.ByKey {
		sum += n
	}
	if sum != outcome.Hits.Total {
		t.Errorf("per-key sum %d does not match total %d", sum, outcome.Hits.Total)
	}
}
