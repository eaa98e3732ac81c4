package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"go.uber.org/zap"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "200 OK with data",
			status:     http.StatusOK,
			data:       map[string]string{"message": "hello"},
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"hello"}`,
		},
		{
			name:       "201 Created with data",
			status:     http.StatusCreated,
			data:       map[string]int{"seats": 5},
			wantStatus: http.StatusCreated,
			wantBody:   `{"seats":5}`,
		},
		{
			name:       "nil data",
			status:     http.StatusOK,
			wantStatus: http.StatusOK,
			wantBody:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSON(rec, tt.status, tt.data)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			if body := strings.TrimSpace(rec.Body.String()); body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec)
	if got := strings.TrimSpace(rec.Body.String()); got != `{"success":true}` {
		t.Errorf("body = %s", got)
	}
}

func TestFail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", apperr.Validation("title", "title is required"), 400, "title is required"},
		{"not found", apperr.NotFound("Car"), 404, "Car not found"},
		{"conflict", fmt.Errorf("create: %w", apperr.Conflict("Slug already exists")), 409, "Slug already exists"},
		{"unauthorized", apperr.Unauthorized(), 401, "Unauthorized"},
		{"plain", errors.New("connection refused"), 500, "Internal server error"},
		{"wrapped internal", apperr.Wrap(apperr.KindInternal, "find", errors.New("x")), 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
			Fail(rec, req, zap.NewNop(), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var got map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("json unmarshal error: %v", err)
			}
			if got["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", got["error"], tt.wantError)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	var v struct {
		Question string `json:"question"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"question":"Deposit?"}`))
	if err := Decode(httptest.NewRecorder(), req, &v); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if v.Question != "Deposit?" {
		t.Errorf("question = %q", v.Question)
	}

	for _, body := range []string{"", "{not json"} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := Decode(httptest.NewRecorder(), req, &v)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Decode(%q) error = %v, want validation", body, err)
		}
	}
}
