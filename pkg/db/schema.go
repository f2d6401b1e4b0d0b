package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per generation run (metadata only, never page content)
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    csv_path TEXT NOT NULL,
    input_hash TEXT,
    total_rows INTEGER DEFAULT 0,
    indexable_pages INTEGER DEFAULT 0,
    unique_pages INTEGER DEFAULT 0,
    enhanced BOOLEAN DEFAULT 0,
    txt_path TEXT,
    json_path TEXT,
    validation_issues TEXT,    -- JSON array of issue strings
    status TEXT NOT NULL       -- success, partial, failed
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);

-- Run categories: per-category page counts for each run
CREATE TABLE IF NOT EXISTS run_categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    category TEXT NOT NULL,
    page_count INTEGER NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, category)
);

CREATE INDEX IF NOT EXISTS idx_run_categories_run ON run_categories(run_id);
`
