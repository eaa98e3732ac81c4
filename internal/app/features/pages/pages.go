// internal/app/features/pages/pages.go
package pages

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	pagestore "github.com/dalemusser/stratarent/internal/app/store/pages"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/app/system/normalize"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

const entity = "pages"

// MaxContentLength is the maximum allowed length for page content (100KB).
const MaxContentLength = 100000

// Handler provides static page handlers.
type Handler struct {
	pageStore *pagestore.Store
	audit     *auditlog.Logger
	errLog    *errorsfeature.ErrorLogger
}

// NewHandler creates a new pages Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger) *Handler {
	return &Handler{
		pageStore: pagestore.New(db),
		audit:     audit,
		errLog:    errLog,
	}
}

// Routes returns a router with the page endpoints.
//
// When mounted at /api/pages:
//   - GET /api/pages          (admin) editable slugs with their saved state
//   - GET /api/pages/{slug}   (public)
//   - PUT /api/pages/{slug}   (admin)
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/{slug}", h.Get)

	r.Group(func(ar chi.Router) {
		ar.Use(authz.RequireAdmin)
		ar.Get("/", h.List)
		ar.Put("/{slug}", h.Update)
	})
	return r
}

// pageDisplayName returns a human-friendly name for a page slug.
func pageDisplayName(slug string) string {
	switch slug {
	case models.PageSlugAbout:
		return "About"
	case models.PageSlugContact:
		return "Contact"
	case models.PageSlugTerms:
		return "Terms of Service"
	case models.PageSlugPrivacy:
		return "Privacy Policy"
	default:
		return slug
	}
}

// slugParam reads and validates the {slug} URL parameter.
func slugParam(r *http.Request) (string, bool) {
	slug := normalize.Slug(chi.URLParam(r, "slug"))
	return slug, models.IsValidPageSlug(slug)
}

// Get handles GET /api/pages/{slug}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	slug, ok := slugParam(r)
	if !ok {
		h.errLog.Fail(w, r, pagestore.ErrNotFound)
		return
	}
	page, err := h.pageStore.GetBySlug(r.Context(), slug)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, page)
}

// PageSummary is one row of the admin page list.
type PageSummary struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Saved bool   `json:"saved"`
}

// List handles GET /api/pages. Every editable slug is listed, saved or not.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	saved, err := h.pageStore.GetAll(r.Context())
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	bySlug := make(map[string]models.Page, len(saved))
	for _, p := range saved {
		bySlug[p.Slug] = p
	}

	out := make([]PageSummary, 0, len(models.AllPageSlugs()))
	for _, slug := range models.AllPageSlugs() {
		s := PageSummary{Slug: slug, Name: pageDisplayName(slug)}
		if p, ok := bySlug[slug]; ok {
			s.Title = p.Title
			s.Saved = true
		}
		out = append(out, s)
	}
	jsonutil.OK(w, out)
}

type pageBody struct {
	Title   string         `json:"title"`
	Content string         `json:"content"`
	SEO     models.SEOMeta `json:"seo"`
}

// Update handles PUT /api/pages/{slug}. The page is created on first save;
// content is sanitized by the store.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	slug, ok := slugParam(r)
	if !ok {
		h.errLog.Fail(w, r, pagestore.ErrNotFound)
		return
	}
	var b pageBody
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	title := strings.TrimSpace(b.Title)
	if title == "" {
		title = pageDisplayName(slug)
	}
	if len(b.Content) > MaxContentLength {
		h.errLog.Fail(w, r, apperr.Validation("content", "Content is too long. Maximum length is 100,000 characters."))
		return
	}

	p := auth.CurrentPrincipal(r)
	page := models.Page{
		Slug:          slug,
		Title:         title,
		Content:       b.Content,
		SEO:           b.SEO,
		UpdatedByID:   &p.UserID,
		UpdatedByName: p.Name,
	}
	saved, err := h.pageStore.Upsert(r.Context(), page)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, p.UserID, audit.EventUpdated, entity, saved.ID.Hex())
	jsonutil.OK(w, saved)
}
