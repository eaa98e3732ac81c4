// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/app/system/tasks"
	"github.com/dalemusser/stratarent/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ClientSource yields the shared Mongo client. dbconn.Connector satisfies it;
// asking for the client dials on first use.
type ClientSource interface {
	Client(ctx context.Context) (*mongo.Client, error)
}

// CacheStats reports how many entries the page cache holds.
type CacheStats interface {
	MetadataCount() int
}

// JobReporter reports background job state. tasks.Runner satisfies it.
type JobReporter interface {
	Status() []tasks.JobStatus
}

// Handler provides health check endpoints.
type Handler struct {
	clients ClientSource
	cache   CacheStats  // optional
	jobs    JobReporter // optional
	logger  *zap.Logger
}

// NewHandler creates a new health check Handler. cache may be nil.
func NewHandler(clients ClientSource, cache CacheStats, logger *zap.Logger) *Handler {
	return &Handler{
		clients: clients,
		cache:   cache,
		logger:  logger,
	}
}

// WithJobs adds background job state to the full health check.
func (h *Handler) WithJobs(jobs JobReporter) *Handler {
	h.jobs = jobs
	return h
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
	Cache    *CacheInfo        `json:"cache,omitempty"`
	Jobs     []tasks.JobStatus `json:"jobs,omitempty"`
}

// CacheInfo is the page cache summary in the full health check.
type CacheInfo struct {
	MetadataEntries int `json:"metadataEntries"`
}

// Routes returns a chi.Router with health check routes mounted.
// Provides /health (full check), /health/ready, and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds /ready and /livez endpoints directly on the root router.
// This is the standard convention for Kubernetes probes:
//   - /ready (or /readyz) - readiness probe
//   - /livez - liveness probe
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// ping dials if needed and pings the primary.
func (h *Handler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()

	client, err := h.clients.Client(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// Check performs a full health check including database connectivity.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := Response{
		Status:   "ok",
		Services: make(map[string]string),
	}

	if err := h.ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Services["mongodb"] = "unavailable"
		h.logger.Warn("health check: mongodb ping failed", zap.Error(err))
	} else {
		resp.Services["mongodb"] = "ok"
	}
	if h.cache != nil {
		resp.Cache = &CacheInfo{MetadataEntries: h.cache.MetadataCount()}
	}
	// Job failures are reported but do not make the instance unhealthy.
	if h.jobs != nil {
		resp.Jobs = h.jobs.Status()
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	jsonutil.JSON(w, status, resp)
}

// Ready checks if the service is ready to accept requests.
// Used by Kubernetes readiness probes.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		jsonutil.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	jsonutil.OK(w, map[string]string{"status": "ready"})
}

// Live checks if the service is alive.
// Used by Kubernetes liveness probes.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]string{"status": "alive"})
}
