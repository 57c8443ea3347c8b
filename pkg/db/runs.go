package db

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Run represents one recorded filter invocation
type Run struct {
	RunID            int64
	RunUID           string
	CreatedAt        time.Time
	LogFile          string
	FilterFile       string
	TotalHits        int
	FailedPartitions int
	Fingerprint      string
	LineCount        int
	FilteredLog      string
}

// RunHit is a per-keyword match count within a run
type RunHit struct {
	Keyword string
	Hits    int
}

// InsertRun records a completed filter invocation. A fresh UID is assigned
// here; the returned Run carries it together with the new row ID.
func (db *DB) InsertRun(run Run) (Run, error) {
	run.RunUID = uuid.NewString()

	result, err := db.Exec(`
		INSERT INTO runs (run_uid, log_file, filter_file, total_hits, failed_partitions, fingerprint, line_count, filtered_log)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunUID, run.LogFile, run.FilterFile, run.TotalHits, run.FailedPartitions, run.Fingerprint, run.LineCount, run.FilteredLog)
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}

	run.RunID, err = result.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("failed to get run ID: %w", err)
	}

	return run, nil
}

// InsertRunHits records the per-keyword counts for a run. Keywords are
// inserted in sorted order so replays produce identical row order.
func (db *DB) InsertRunHits(runID int64, hits map[string]int) error {
	keywords := make([]string, 0, len(hits))
	for k := range hits {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	for _, keyword := range keywords {
		_, err := db.Exec(`
			INSERT INTO run_hits (run_id, keyword, hits)
			VALUES (?, ?, ?)
		`, runID, keyword, hits[keyword])
		if err != nil {
			return fmt.Errorf("failed to insert run hit for %q: %w", keyword, err)
		}
	}
	return nil
}

// GetRunByID retrieves a run by its ID
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	var run Run
	err := db.QueryRow(`
		SELECT run_id, run_uid, created_at, log_file, filter_file, total_hits,
		       failed_partitions, fingerprint, line_count, filtered_log
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(
		&run.RunID,
		&run.RunUID,
		&run.CreatedAt,
		&run.LogFile,
		&run.FilterFile,
		&run.TotalHits,
		&run.FailedPartitions,
		&run.Fingerprint,
		&run.LineCount,
		&run.FilteredLog,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves runs, most recent first. CURRENT_TIMESTAMP only has
// second resolution, so ordering goes by row ID instead of created_at.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, run_uid, created_at, log_file, filter_file, total_hits,
		       failed_partitions, fingerprint, line_count, filtered_log
		FROM runs
		ORDER BY run_id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.RunID, &run.RunUID, &run.CreatedAt, &run.LogFile, &run.FilterFile,
			&run.TotalHits, &run.FailedPartitions, &run.Fingerprint, &run.LineCount, &run.FilteredLog); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// GetRunHits retrieves a run's per-keyword counts, highest first
func (db *DB) GetRunHits(runID int64) ([]RunHit, error) {
	rows, err := db.Query(`
		SELECT keyword, hits
		FROM run_hits
		WHERE run_id = ?
		ORDER BY hits DESC, keyword ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run hits: %w", err)
	}
	defer rows.Close()

	var hits []RunHit
	for rows.Next() {
		var h RunHit
		if err := rows.Scan(&h.Keyword, &h.Hits); err != nil {
			return nil, fmt.Errorf("failed to scan run hit: %w", err)
		}
		hits = append(hits, h)
	}

	return hits, nil
}
