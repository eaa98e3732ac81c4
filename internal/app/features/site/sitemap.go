package site

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	blogstore "github.com/dalemusser/stratarent/internal/app/store/blog"
	carstore "github.com/dalemusser/stratarent/internal/app/store/cars"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.uber.org/zap"
)

// DisallowedPaths are excluded from crawling in robots.txt.
var DisallowedPaths = []string{"/admin/", "/api/", "/_next/", "/private/"}

// Robots handles GET /robots.txt.
func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, p := range DisallowedPaths {
		fmt.Fprintf(&b, "Disallow: %s\n", p)
	}
	fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", h.baseURL)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

// Sitemap handles GET /sitemap.xml: static pages, published posts,
// available cars and active landing pages.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.buildContext(r)
	defer cancel()

	set := urlset{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  h.sitemapURLs(ctx),
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		h.logger.Error("sitemap encode failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}

func (h *Handler) sitemapURLs(ctx context.Context) []sitemapURL {
	now := h.now().UTC()
	u := func(path string, mod time.Time, freq string, prio float64) sitemapURL {
		s := sitemapURL{Loc: h.baseURL + path, ChangeFreq: freq, Priority: prio}
		if !mod.IsZero() {
			s.LastMod = mod.UTC().Format("2006-01-02")
		}
		return s
	}

	urls := []sitemapURL{
		u("/", now, "daily", 1.0),
		u("/cars", now, "daily", 0.9),
		u("/blog", now, "weekly", 0.8),
	}
	for _, slug := range models.AllPageSlugs() {
		urls = append(urls, u("/"+slug, time.Time{}, "monthly", 0.5))
	}

	yes := true
	if posts, err := h.posts.List(ctx, blogstore.Filter{Published: &yes}); err != nil {
		h.degrade("sitemap_posts", err)
	} else {
		for _, p := range posts {
			urls = append(urls, u("/blog/"+p.Slug, p.UpdatedAt, "monthly", 0.7))
		}
	}
	if cars, err := h.cars.List(ctx, carstore.Filter{Available: &yes}); err != nil {
		h.degrade("sitemap_cars", err)
	} else {
		for _, c := range cars {
			urls = append(urls, u("/cars/"+c.ID.Hex(), c.UpdatedAt, "weekly", 0.6))
		}
	}
	if locs, err := h.locations.List(ctx, true); err != nil {
		h.degrade("sitemap_locations", err)
	} else {
		for _, l := range locs {
			urls = append(urls, u("/locations/"+l.Slug, l.UpdatedAt, "monthly", 0.7))
		}
	}
	if svcs, err := h.services.List(ctx, true); err != nil {
		h.degrade("sitemap_services", err)
	} else {
		for _, s := range svcs {
			urls = append(urls, u("/services/"+s.Slug, s.UpdatedAt, "monthly", 0.7))
		}
	}
	return urls
}
