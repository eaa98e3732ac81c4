// Package site serves the JSON page payloads the public rendering layer
// consumes, plus robots.txt and sitemap.xml.
//
// Payloads are cached in pagecache under their public path, so a revalidate
// is reflected on the next request. A failed read degrades to an empty
// section and is logged; the page itself still renders.
package site

import (
	"context"
	"net/http"
	"strings"
	"time"

	blogstore "github.com/dalemusser/stratarent/internal/app/store/blog"
	carstore "github.com/dalemusser/stratarent/internal/app/store/cars"
	faqstore "github.com/dalemusser/stratarent/internal/app/store/faqs"
	locationstore "github.com/dalemusser/stratarent/internal/app/store/locations"
	menustore "github.com/dalemusser/stratarent/internal/app/store/menus"
	notificationstore "github.com/dalemusser/stratarent/internal/app/store/notifications"
	pagestore "github.com/dalemusser/stratarent/internal/app/store/pages"
	seosettingsstore "github.com/dalemusser/stratarent/internal/app/store/seosettings"
	servicestore "github.com/dalemusser/stratarent/internal/app/store/services"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/app/system/pagecache"
	"github.com/dalemusser/stratarent/internal/app/system/timeouts"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves site payloads.
type Handler struct {
	cache   *pagecache.Cache
	baseURL string
	logger  *zap.Logger
	now     func() time.Time

	cars          *carstore.Store
	posts         *blogstore.Store
	faqs          *faqstore.Store
	notifications *notificationstore.Store
	menus         *menustore.Store
	seo           *seosettingsstore.Store
	pages         *pagestore.Store
	locations     *locationstore.Store
	services      *servicestore.Store
}

// NewHandler creates a new site Handler. baseURL prefixes canonical links
// and sitemap entries.
func NewHandler(db *mongo.Database, cache *pagecache.Cache, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		cache:         cache,
		baseURL:       strings.TrimRight(baseURL, "/"),
		logger:        logger,
		now:           time.Now,
		cars:          carstore.New(db),
		posts:         blogstore.New(db),
		faqs:          faqstore.New(db),
		notifications: notificationstore.New(db),
		menus:         menustore.New(db),
		seo:           seosettingsstore.New(db),
		pages:         pagestore.New(db),
		locations:     locationstore.New(db),
		services:      servicestore.New(db),
	}
}

// buildContext detaches a cache build from the request that triggered it.
// Concurrent requests share the build, so one client hanging up must not
// fail it for the others.
func (h *Handler) buildContext(r *http.Request) (context.Context, context.CancelFunc) {
	return timeouts.WithTimeout(context.WithoutCancel(r.Context()), timeouts.Medium(), h.logger, "site payload")
}

// serveCached answers with the cached payload for path, building it on a miss.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, path string, build func(context.Context) (any, error)) {
	ctx, cancel := h.buildContext(r)
	defer cancel()

	v, err := h.cache.Page(ctx, path, build)
	if err != nil {
		jsonutil.Fail(w, r, h.logger, err)
		return
	}
	jsonutil.OK(w, v)
}

// degrade logs a failed section read. The caller keeps its empty value.
func (h *Handler) degrade(section string, err error) {
	h.logger.Warn("site section unavailable",
		zap.String("section", section),
		zap.Error(err))
}

// settings returns the stored SEO settings, or the defaults when they
// cannot be read.
func (h *Handler) settings(ctx context.Context) *models.SEOSettings {
	s, err := h.seo.Get(ctx)
	if err != nil {
		h.degrade("seo_settings", err)
		return models.DefaultSEOSettings()
	}
	return s
}

// meta returns the cached metadata for key, deriving it on a miss.
func (h *Handler) meta(ctx context.Context, key string, in metaInput) models.PageMeta {
	m, err := h.cache.Metadata(ctx, key, func(ctx context.Context) (models.PageMeta, error) {
		return deriveMeta(h.settings(ctx), in, h.baseURL), nil
	})
	if err != nil {
		h.degrade("metadata", err)
		return deriveMeta(models.DefaultSEOSettings(), in, h.baseURL)
	}
	return m
}
