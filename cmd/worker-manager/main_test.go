package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-workers/internal/common/database"
)

type stubPinger struct {
	name string
	err  error
}

func (s stubPinger) Name() string                 { return s.name }
func (s stubPinger) Ping(_ context.Context) error { return s.err }

type readyBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func TestRoutes_Ready(t *testing.T) {
	tests := []struct {
		name       string
		deps       []database.Pinger
		wantCode   int
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "all dependencies healthy",
			deps:       []database.Pinger{stubPinger{name: "postgres"}, stubPinger{name: "redis"}},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantChecks: map[string]string{"postgres": "ok", "redis": "ok"},
		},
		{
			name: "one dependency down",
			deps: []database.Pinger{
				stubPinger{name: "postgres"},
				stubPinger{name: "zeebe", err: errors.New("gateway unavailable")},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "not_ready",
			wantChecks: map[string]string{"postgres": "ok", "zeebe": "gateway unavailable"},
		},
		{
			name:       "nil dependencies are skipped",
			deps:       []database.Pinger{nil, stubPinger{name: "elasticsearch"}},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantChecks: map[string]string{"elasticsearch": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			routes(tt.deps...).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body readyBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantChecks, body.Checks)
		})
	}
}

func TestRoutes_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}
