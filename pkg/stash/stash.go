// Package stash implements the two log operations every front end calls:
// fingerprinting a file and filtering it against a keyword spec. Filtering
// validates its inputs up front, fans the scan out over a worker pool, and
// persists a filtered copy plus a metadata artifact.
package stash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aASDa213ASD/noiseless/models"
	"github.com/aASDa213ASD/noiseless/pkg/artifacts"
	"github.com/aASDa213ASD/noiseless/pkg/filterspec"
	"github.com/aASDa213ASD/noiseless/pkg/fingerprint"
	"github.com/aASDa213ASD/noiseless/pkg/partition"
	"github.com/aASDa213ASD/noiseless/pkg/progress"
	"github.com/aASDa213ASD/noiseless/pkg/scan"
	"github.com/aASDa213ASD/noiseless/pkg/storage"
)

// Stash ties the filtering pipeline together: validation, partitioning, the
// concurrent scan, and artifact writes.
type Stash struct {
	logger     *slog.Logger
	files      storage.Storage
	artifacts  *artifacts.Manager
	maxWorkers int
}

// New creates a Stash writing artifacts under cfg's filtered-logs directory.
func New(logger *slog.Logger, cfg *models.Config) (*Stash, error) {
	mgr, err := artifacts.NewManager(cfg.FilteredDir())
	if err != nil {
		return nil, err
	}
	return &Stash{logger: logger, artifacts: mgr, maxWorkers: cfg.MaxWorkers}, nil
}

// GetInfo fingerprints the log file at logPath.
func (s *Stash) GetInfo(logPath string) (models.FileInfo, error) {
	if !s.files.HasFile(logPath) {
		return models.FileInfo{}, fmt.Errorf("%w: log file %q", ErrNotFound, logPath)
	}
	return fingerprint.Info(logPath)
}

// RunDir returns the output directory a filter run for logPath would write
// into, whether or not it exists yet. Front ends use it to ask about
// overwriting before starting a run.
func (s *Stash) RunDir(logPath string) string {
	return s.artifacts.RunDir(artifacts.Stem(logPath))
}

// Filter scans the log at logPath against the keyword spec at filterPath and
// writes the filtered copy and metadata artifact. All validation happens
// before any worker starts, in a fixed order: missing log, missing filter,
// unparseable filter, empty filter, output conflict. newReporter is invoked
// with the source line count once it is known; the reporter then receives
// one update per completed partition.
func (s *Stash) Filter(logPath, filterPath string, overwrite bool, newReporter progress.Factory) (models.FilterOutcome, error) {
	if !s.files.HasFile(logPath) {
		return models.FilterOutcome{}, fmt.Errorf("%w: log file %q", ErrNotFound, logPath)
	}
	if !s.files.HasFile(filterPath) {
		return models.FilterOutcome{}, fmt.Errorf("%w: filter file %q", ErrNotFound, filterPath)
	}

	spec, err := filterspec.Load(filterPath)
	if err != nil {
		return models.FilterOutcome{}, err
	}

	stem := artifacts.Stem(logPath)
	startedAt := time.Now()
	if err := s.artifacts.CheckConflict(stem, overwrite); err != nil {
		return models.FilterOutcome{}, err
	}

	data, err := s.files.ReadFile(logPath)
	if err != nil {
		return models.FilterOutcome{}, fmt.Errorf("failed to read log file: %w", err)
	}

	lines := scan.SplitLines(data)
	workers := partition.Workers(spec.Len(), s.maxWorkers)
	parts := partition.Plan(len(lines), workers)
	s.logger.Debug("Planned filter run", "log", logPath, "lines", len(lines), "workers", workers, "partitions", len(parts))

	agg := scan.Run(s.logger, lines, parts, spec, workers, newReporter(len(lines)))
	if agg.FailedPartitions > 0 {
		s.logger.Warn("Partitions failed during scan, results are partial", "failed_partitions", agg.FailedPartitions)
	}

	// Fingerprint the source after the scan so the metadata reflects the
	// file as it was actually read.
	info, err := fingerprint.Info(logPath)
	if err != nil {
		return models.FilterOutcome{}, err
	}

	outcome := models.FilterOutcome{
		Hits: models.Hits{Total: agg.Total, ByKey: agg.Counts},
		Meta: models.OutcomeMeta{
			Filter:     filepath.Base(filterPath),
			FilteredAt: time.Now().Format(models.TimestampLayout),
			File:       info,
		},
		FailedPartitions: agg.FailedPartitions,
	}

	payload, err := json.MarshalIndent(outcome, "", "    ")
	if err != nil {
		return models.FilterOutcome{}, fmt.Errorf("failed to encode metadata: %w", err)
	}

	paths, err := s.artifacts.WriteRun(stem, startedAt, bytes.Join(agg.Matched, nil), payload)
	if err != nil {
		return models.FilterOutcome{}, err
	}
	outcome.OutputDir = paths.Dir
	outcome.FilteredLog = paths.FilteredLog
	outcome.MetadataFile = paths.MetadataFile

	s.logger.Info("Filter run complete",
		"total_hits", agg.Total,
		"filtered_log", paths.FilteredLog,
		"metadata", paths.MetadataFile,
	)
	return outcome, nil
}
