package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dtnitsch/llms-builder/models"
)

// Run is one recorded generation run.
type Run struct {
	RunID            int64            `json:"run_id" yaml:"run_id"`
	CreatedAt        time.Time        `json:"created_at" yaml:"created_at"`
	CSVPath          string           `json:"csv_path" yaml:"csv_path"`
	InputHash        string           `json:"input_hash,omitempty" yaml:"input_hash,omitempty"`
	TotalRows        int              `json:"total_rows" yaml:"total_rows"`
	IndexablePages   int              `json:"indexable_pages" yaml:"indexable_pages"`
	UniquePages      int              `json:"unique_pages" yaml:"unique_pages"`
	Enhanced         bool             `json:"enhanced" yaml:"enhanced"`
	TXTPath          string           `json:"txt_path,omitempty" yaml:"txt_path,omitempty"`
	JSONPath         string           `json:"json_path,omitempty" yaml:"json_path,omitempty"`
	ValidationIssues []string         `json:"validation_issues,omitempty" yaml:"validation_issues,omitempty"`
	Status           string           `json:"status" yaml:"status"`
	Categories       map[string]int   `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// InsertRun records a completed run and its per-category counts.
func (db *DB) InsertRun(run *Run, categories map[models.Category]int) (int64, error) {
	issuesJSON, err := json.Marshal(run.ValidationIssues)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal validation issues: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO runs (csv_path, input_hash, total_rows, indexable_pages, unique_pages,
			enhanced, txt_path, json_path, validation_issues, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CSVPath, NewNullString(run.InputHash), run.TotalRows, run.IndexablePages,
		run.UniquePages, run.Enhanced, NewNullString(run.TXTPath),
		NewNullString(run.JSONPath), string(issuesJSON), run.Status)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for cat, count := range categories {
		if _, err := tx.Exec(`
			INSERT INTO run_categories (run_id, category, page_count)
			VALUES (?, ?, ?)`, runID, string(cat), count); err != nil {
			return 0, fmt.Errorf("failed to insert run category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var run Run
	var inputHash, txtPath, jsonPath, issuesJSON sql.NullString
	err := row.Scan(&run.RunID, &run.CreatedAt, &run.CSVPath, &inputHash,
		&run.TotalRows, &run.IndexablePages, &run.UniquePages, &run.Enhanced,
		&txtPath, &jsonPath, &issuesJSON, &run.Status)
	if err != nil {
		return nil, err
	}
	run.InputHash = inputHash.String
	run.TXTPath = txtPath.String
	run.JSONPath = jsonPath.String
	if issuesJSON.Valid && issuesJSON.String != "" {
		if err := json.Unmarshal([]byte(issuesJSON.String), &run.ValidationIssues); err != nil {
			return nil, fmt.Errorf("failed to parse validation issues: %w", err)
		}
	}
	return &run, nil
}

// GetRun fetches one run with its category counts.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.QueryRow(`
		SELECT run_id, created_at, csv_path, input_hash, total_rows, indexable_pages,
			unique_pages, enhanced, txt_path, json_path, validation_issues, status
		FROM runs WHERE run_id = ?`, runID)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := db.Query(`
		SELECT category, page_count FROM run_categories
		WHERE run_id = ? ORDER BY page_count DESC, category`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run categories: %w", err)
	}
	defer rows.Close()

	run.Categories = make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan run category: %w", err)
		}
		run.Categories[category] = count
	}
	return run, rows.Err()
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, created_at, csv_path, input_hash, total_rows, indexable_pages,
			unique_pages, enhanced, txt_path, json_path, validation_issues, status
		FROM runs ORDER BY created_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// NewNullString creates a sql.NullString, treating "" as NULL.
func NewNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
