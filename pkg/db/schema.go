package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per completed filter invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uid TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    log_file TEXT NOT NULL,
    filter_file TEXT NOT NULL,
    total_hits INTEGER NOT NULL,
    failed_partitions INTEGER DEFAULT 0,

    -- Content fingerprint of the source log at filter time
    fingerprint TEXT NOT NULL,
    line_count INTEGER DEFAULT 0,

    -- Path of the filtered copy this run produced
    filtered_log TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_log ON runs(log_file);
CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);

-- Run hits: per-keyword match counts within a run
CREATE TABLE IF NOT EXISTS run_hits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    keyword TEXT NOT NULL,
    hits INTEGER NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, keyword)
);

CREATE INDEX IF NOT EXISTS idx_run_hits_run ON run_hits(run_id);
CREATE INDEX IF NOT EXISTS idx_run_hits_keyword ON run_hits(keyword);
`
