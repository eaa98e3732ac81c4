// Package seosettings serves the site-wide SEO settings under
// /api/seo-settings.
package seosettings

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	seosettingsstore "github.com/dalemusser/stratarent/internal/app/store/seosettings"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// MaxKeywords bounds the keyword list.
const MaxKeywords = 50

// Handler serves SEO settings endpoints.
type Handler struct {
	settings *seosettingsstore.Store
	audit    *auditlog.Logger
	errLog   *errorsfeature.ErrorLogger
}

// NewHandler creates a new SEO settings Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger) *Handler {
	return &Handler{
		settings: seosettingsstore.New(db),
		audit:    audit,
		errLog:   errLog,
	}
}

// Routes returns a router with GET (public) and PUT (admin) on "/".
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.With(authz.RequireAdmin).Put("/", h.Update)
	return r
}

// Get handles GET /api/seo-settings. Defaults are returned until an admin
// saves settings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, s)
}

// Update handles PUT /api/seo-settings. The body replaces the stored
// settings; empty title templates fall back to the defaults on read.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.SEOSettings
	if err := jsonutil.Decode(w, r, &in); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	in.SiteName = strings.TrimSpace(in.SiteName)
	if in.SiteName == "" {
		h.errLog.Fail(w, r, apperr.Validation("siteName", "Site name is required"))
		return
	}
	in.Keywords = cleanKeywords(in.Keywords)
	if len(in.Keywords) > MaxKeywords {
		h.errLog.Fail(w, r, apperr.Validation("keywords", "Too many keywords"))
		return
	}

	p := auth.CurrentPrincipal(r)
	in.UpdatedByID = &p.UserID
	in.UpdatedByName = p.Name

	saved, err := h.settings.Save(r.Context(), in)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, p.UserID, audit.EventUpdated, "seo-settings", saved.ID.Hex())
	jsonutil.OK(w, saved)
}

// cleanKeywords trims entries and drops blanks and repeats.
func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		key := strings.ToLower(k)
		if k == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, k)
	}
	return out
}
