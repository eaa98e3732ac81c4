package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/stratarent/internal/app/system/tasks"
	"github.com/dalemusser/stratarent/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type staticClient struct{ c *mongo.Client }

func (s staticClient) Client(context.Context) (*mongo.Client, error) { return s.c, nil }

type downClient struct{}

func (downClient) Client(context.Context) (*mongo.Client, error) {
	return nil, errors.New("connection refused")
}

type fakeCache int

func (f fakeCache) MetadataCount() int { return int(f) }

type fakeJobs []tasks.JobStatus

func (f fakeJobs) Status() []tasks.JobStatus { return f }

func body(rec *httptest.ResponseRecorder) string {
	return strings.TrimSpace(rec.Body.String())
}

func TestHandler_Check(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(staticClient{db.Client()}, fakeCache(3), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("response status = %q, want %q", resp.Status, "ok")
	}
	if resp.Services["mongodb"] != "ok" {
		t.Errorf("mongodb status = %q, want %q", resp.Services["mongodb"], "ok")
	}
	if resp.Cache == nil || resp.Cache.MetadataEntries != 3 {
		t.Errorf("cache = %+v, want 3 entries", resp.Cache)
	}
}

func TestHandler_CheckDegraded(t *testing.T) {
	h := NewHandler(downClient{}, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "degraded" || resp.Services["mongodb"] != "unavailable" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Cache != nil {
		t.Errorf("cache should be omitted without a cache, got %+v", resp.Cache)
	}
}

func TestHandler_CheckReportsJobs(t *testing.T) {
	jobs := fakeJobs{{Name: "booking-completion", Runs: 4, Failures: 1, LastError: "timeout"}}
	h := NewHandler(downClient{}, nil, zap.NewNop()).WithJobs(jobs)

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Jobs) != 1 || resp.Jobs[0].Name != "booking-completion" || resp.Jobs[0].LastError != "timeout" {
		t.Errorf("jobs = %+v", resp.Jobs)
	}
}

func TestHandler_Ready(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(staticClient{db.Client()}, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Ready() status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body(rec) != `{"status":"ready"}` {
		t.Errorf("Ready() body = %q, want %q", body(rec), `{"status":"ready"}`)
	}
}

func TestHandler_NotReady(t *testing.T) {
	h := NewHandler(downClient{}, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Ready() status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if body(rec) != `{"status":"not ready"}` {
		t.Errorf("Ready() body = %q", body(rec))
	}
}

func TestHandler_Live(t *testing.T) {
	// Live doesn't need DB - just check the handler works
	h := NewHandler(nil, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Live() status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body(rec) != `{"status":"alive"}` {
		t.Errorf("Live() body = %q, want %q", body(rec), `{"status":"alive"}`)
	}
}

func TestRoutesAndRootEndpoints(t *testing.T) {
	h := NewHandler(downClient{}, nil, zap.NewNop())
	r := chi.NewRouter()
	r.Mount("/health", Routes(h))
	MountRootEndpoints(r, h)

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusServiceUnavailable},
		{"/health/ready", http.StatusServiceUnavailable},
		{"/health/live", http.StatusOK},
		{"/ready", http.StatusServiceUnavailable},
		{"/readyz", http.StatusServiceUnavailable},
		{"/livez", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("%s status = %d, want %d", tt.path, rec.Code, tt.want)
			}
		})
	}
}
