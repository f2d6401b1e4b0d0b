package db

import (
	"testing"

	"github.com/dtnitsch/llms-builder/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func sampleRun() *Run {
	return &Run{
		CSVPath:          "/tmp/crawl.csv",
		InputHash:        "abc123",
		TotalRows:        120,
		IndexablePages:   90,
		UniquePages:      80,
		Enhanced:         true,
		TXTPath:          "exports/llms.txt",
		JSONPath:         "exports/llms.json",
		ValidationIssues: []string{"Output seems too short"},
		Status:           "success",
	}
}

func TestInsertAndGetRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	categories := map[models.Category]int{
		"Services": 30,
		"Blog":     25,
		"Other":    5,
	}

	runID, err := db.InsertRun(sampleRun(), categories)
	if err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if runID <= 0 {
		t.Fatalf("runID = %d", runID)
	}

	got, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.CSVPath != "/tmp/crawl.csv" || got.UniquePages != 80 || !got.Enhanced {
		t.Errorf("run = %+v", got)
	}
	if got.Status != "success" {
		t.Errorf("status = %q", got.Status)
	}
	if len(got.ValidationIssues) != 1 || got.ValidationIssues[0] != "Output seems too short" {
		t.Errorf("issues = %v", got.ValidationIssues)
	}
	if got.Categories["Services"] != 30 || got.Categories["Blog"] != 25 {
		t.Errorf("categories = %v", got.Categories)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestGetRunNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetRun(42); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for i := 0; i < 3; i++ {
		run := sampleRun()
		run.UniquePages = 10 * (i + 1)
		if _, err := db.InsertRun(run, nil); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	// Newest first.
	if runs[0].UniquePages != 30 {
		t.Errorf("first run = %+v, want newest", runs[0])
	}
}

func TestListRunsEmpty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs, want 0", len(runs))
	}
}
