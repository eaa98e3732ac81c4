// Package blog serves blog posts under /api/blog.
//
// Visitors only ever see published posts; an admin session lifts that
// restriction on list and detail reads.
package blog

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	blogstore "github.com/dalemusser/stratarent/internal/app/store/blog"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const entity = "blog_posts"

// Handler serves blog endpoints.
type Handler struct {
	posts  *blogstore.Store
	audit  *auditlog.Logger
	errLog *errorsfeature.ErrorLogger
}

// NewHandler creates a new blog Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger) *Handler {
	return &Handler{
		posts:  blogstore.New(db),
		audit:  audit,
		errLog: errLog,
	}
}

// List handles GET /api/blog?published=&category=&tag=&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := blogstore.Filter{
		Published: jsonutil.QueryBool(r, "published"),
		Category:  r.URL.Query().Get("category"),
		Tag:       r.URL.Query().Get("tag"),
		Limit:     jsonutil.QueryInt(r, "limit", 0),
	}
	if !authz.IsAdmin(r) {
		published := true
		f.Published = &published
	}
	posts, err := h.posts.List(r.Context(), f)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, posts)
}

// Get handles GET /api/blog/{slug}. Each successful read counts a view.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"), !authz.IsAdmin(r))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, post)
}

// CheckSlug handles GET /api/blog/check-slug?slug=&excludeId=.
func (h *Handler) CheckSlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	if slug == "" {
		h.errLog.Fail(w, r, apperr.Validation("slug", "Slug is required"))
		return
	}
	var exclude primitive.ObjectID
	if raw := r.URL.Query().Get("excludeId"); raw != "" {
		id, err := jsonutil.ParseID("excludeId", raw)
		if err != nil {
			h.errLog.Fail(w, r, err)
			return
		}
		exclude = id
	}
	exists, err := h.posts.SlugExists(r.Context(), slug, exclude)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, map[string]bool{"exists": exists})
}

type postBody struct {
	Title      *string         `json:"title"`
	Slug       *string         `json:"slug"`
	Content    *string         `json:"content"`
	Excerpt    *string         `json:"excerpt"`
	Author     *string         `json:"author"`
	CoverImage *string         `json:"coverImage"`
	Categories []string        `json:"categories"`
	Tags       []string        `json:"tags"`
	Published  *bool           `json:"published"`
	SEO        *models.SEOMeta `json:"seo"`
}

// Create handles POST /api/blog.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var b postBody
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if strings.TrimSpace(deref(b.Title)) == "" {
		h.errLog.Fail(w, r, apperr.Validation("title", "Title is required"))
		return
	}
	if strings.TrimSpace(deref(b.Content)) == "" {
		h.errLog.Fail(w, r, apperr.Validation("content", "Content is required"))
		return
	}

	in := blogstore.CreateInput{
		Title:      strings.TrimSpace(*b.Title),
		Slug:       deref(b.Slug),
		Content:    *b.Content,
		Excerpt:    deref(b.Excerpt),
		Author:     deref(b.Author),
		CoverImage: deref(b.CoverImage),
		Categories: b.Categories,
		Tags:       b.Tags,
		Published:  b.Published != nil && *b.Published,
	}
	if b.SEO != nil {
		in.SEO = *b.SEO
	}

	post, err := h.posts.Create(r.Context(), in)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventCreated, entity, post.ID.Hex())
	jsonutil.Created(w, post)
}

// Update handles PUT /api/blog with {_id|id, ...fields}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var b struct {
		jsonutil.IDRef
		postBody
	}
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	id, err := b.ObjectID()
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if b.Title != nil && strings.TrimSpace(*b.Title) == "" {
		h.errLog.Fail(w, r, apperr.Validation("title", "Title cannot be empty"))
		return
	}

	post, err := h.posts.Update(r.Context(), id, blogstore.UpdateInput{
		Title:      b.Title,
		Slug:       b.Slug,
		Content:    b.Content,
		Excerpt:    b.Excerpt,
		Author:     b.Author,
		CoverImage: b.CoverImage,
		Categories: b.Categories,
		Tags:       b.Tags,
		Published:  b.Published,
		SEO:        b.SEO,
	})
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventUpdated, entity, id.Hex())
	jsonutil.OK(w, post)
}

// Delete handles DELETE /api/blog?id=.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := jsonutil.ParseID("id", r.URL.Query().Get("id"))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := h.posts.Delete(r.Context(), id); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventDeleted, entity, id.Hex())
	jsonutil.Success(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
