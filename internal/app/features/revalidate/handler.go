// Package revalidate serves POST /api/revalidate, which drops the cached
// public page payloads so the next request rebuilds them.
package revalidate

import (
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/app/system/pagecache"
)

// Revalidator is satisfied by *pagecache.Cache.
type Revalidator interface {
	Revalidate() (pagecache.Result, error)
}

// Handler serves the revalidate endpoint.
type Handler struct {
	cache  Revalidator
	audit  *auditlog.Logger
	errLog *errorsfeature.ErrorLogger
}

// NewHandler creates a new revalidate Handler.
func NewHandler(cache Revalidator, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger) *Handler {
	return &Handler{cache: cache, audit: audit, errLog: errLog}
}

type response struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Revalidate handles POST /api/revalidate. Calling it repeatedly is safe.
func (h *Handler) Revalidate(w http.ResponseWriter, r *http.Request) {
	actor := auth.CurrentPrincipal(r).UserID
	res, err := h.cache.Revalidate()
	if err != nil {
		h.errLog.Log(r, "revalidation failed", err)
		h.audit.System(r.Context(), r, actor, audit.EventCacheRevalidated, false, map[string]string{"error": err.Error()})
		jsonutil.Error(w, http.StatusInternalServerError, "Failed to revalidate cache")
		return
	}
	h.audit.System(r.Context(), r, actor, audit.EventCacheRevalidated, true, nil)
	jsonutil.OK(w, response{
		Success:   true,
		Message:   "Cache revalidated successfully",
		Timestamp: res.Timestamp,
	})
}
