package serve

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/llms-builder/models"
	"github.com/dtnitsch/llms-builder/pkg/pipeline"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := models.DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "exports")
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	p := pipeline.New(cfg, nil, nil, logger)

	return NewServer("127.0.0.1:0", p, logger)
}

func uploadRequest(t *testing.T, csv string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("csv", "crawl.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(csv)); err != nil {
		t.Fatal(err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/generate", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

const serverCSV = `Address,Status Code,Indexability,Title 1,Meta Description 1
https://example.com/,200,Indexable,Example Practice,A practice that does things.
https://example.com/services/prp,200,Indexable,PRP Therapy,Platelet-rich plasma injections.
`

func TestHandleIndex(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<form") {
		t.Error("index page missing upload form")
	}
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestHandleGenerate(t *testing.T) {
	server := setupTestServer(t)

	req := uploadRequest(t, serverCSV, map[string]string{"preview": "1"})
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result models.ProcessResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !result.Success {
		t.Fatalf("result not successful: %s", result.Error)
	}
	if result.Stats.TotalRows != 2 {
		t.Errorf("TotalRows = %d", result.Stats.TotalRows)
	}
	if result.Preview == "" {
		t.Error("expected a preview")
	}
}

func TestHandleGenerateBadInput(t *testing.T) {
	server := setupTestServer(t)

	// Wrong columns: the loader rejects this before any processing.
	req := uploadRequest(t, "URL,Code\nhttps://example.com,200\n", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestHandleGenerateRequiresPost(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/generate", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHandleGenerateMissingFile(t *testing.T) {
	server := setupTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/generate", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
