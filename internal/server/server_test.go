package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khalids/topicwire/internal/pipeline"
)

type fakeIngestor struct {
	stats     *pipeline.RunStats
	processed int
	calls     int
}

func (f *fakeIngestor) IngestTopic(ctx context.Context) (int, error) {
	f.calls++
	return f.processed, nil
}

func (f *fakeIngestor) Stats() *pipeline.RunStats {
	return f.stats
}

func newTestServer(ing *fakeIngestor) *Server {
	return New(nil, ing, testConfig())
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&fakeIngestor{stats: pipeline.NewRunStats()})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestIngest_ReturnsProcessedCount(t *testing.T) {
	ing := &fakeIngestor{stats: pipeline.NewRunStats(), processed: 1}
	srv := newTestServer(ing)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ing.calls != 1 {
		t.Errorf("ingestor called %d times, want 1", ing.calls)
	}

	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["processed"] != 1 {
		t.Errorf("processed = %d, want 1", body["processed"])
	}
}

func TestIngest_ConflictWhileRunActive(t *testing.T) {
	stats := pipeline.NewRunStats()
	stats.Begin("topic-1", 5)

	ing := &fakeIngestor{stats: stats}
	srv := newTestServer(ing)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if ing.calls != 0 {
		t.Errorf("ingestor called %d times, want 0", ing.calls)
	}
}

func TestIngestStatus_ReportsSnapshot(t *testing.T) {
	stats := pipeline.NewRunStats()
	stats.Begin("topic-1", 5)
	stats.SetStage(2, pipeline.StageResolved)

	srv := newTestServer(&fakeIngestor{stats: stats})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ingest/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var snapshot pipeline.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if !snapshot.Active {
		t.Error("snapshot should report an active run")
	}
	if snapshot.CurrentEntry != 2 || snapshot.Stage != pipeline.StageResolved {
		t.Errorf("snapshot = %+v", snapshot)
	}
}
