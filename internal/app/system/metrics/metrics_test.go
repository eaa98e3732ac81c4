package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/blog/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/blog/{slug}", "GET", "404"))
	for _, slug := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/blog/"+slug, nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/blog/{slug}", "GET", "404"))
	assert.Equal(t, 3.0, after-before)
}

func TestCacheCounters(t *testing.T) {
	before := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("pages", "hit"))
	CacheHit("pages")
	assert.Equal(t, 1.0, testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("pages", "hit"))-before)
}

func TestHandler_Exposes(t *testing.T) {
	Revalidated(true)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "stratarent_pagecache_revalidations_total"))
}
