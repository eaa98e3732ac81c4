package site

import (
	"context"
	"errors"
	"net/http"

	blogstore "github.com/dalemusser/stratarent/internal/app/store/blog"
	carstore "github.com/dalemusser/stratarent/internal/app/store/cars"
	pagestore "github.com/dalemusser/stratarent/internal/app/store/pages"
	"github.com/dalemusser/stratarent/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/app/system/normalize"
	"github.com/dalemusser/stratarent/internal/app/system/pagecache"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Section sizes on the home page.
const (
	HomeFeaturedCars = 6
	HomeLatestPosts  = 3
)

// Derived text lengths, in runes.
const (
	excerptLength         = 200
	metaDescriptionLength = 160
)

// withExcerpts fills a missing excerpt from the post body.
func withExcerpts(posts []models.BlogPost) []models.BlogPost {
	for i := range posts {
		if posts[i].Excerpt == "" {
			posts[i].Excerpt = htmlsanitize.Excerpt(posts[i].Content, excerptLength)
		}
	}
	return posts
}

// Layout is the root layout payload shared by every page.
type Layout struct {
	Settings   *models.SEOSettings `json:"settings"`
	Meta       models.PageMeta     `json:"meta"`
	HeaderMenu []models.MenuNode   `json:"headerMenu"`
	FooterMenu []models.MenuNode   `json:"footerMenu"`
}

// Home is the home page payload.
type Home struct {
	Meta          models.PageMeta       `json:"meta"`
	Banner        *models.Notification  `json:"banner"`
	Notifications []models.Notification `json:"notifications"`
	FeaturedCars  []models.Car          `json:"featuredCars"`
	LatestPosts   []models.BlogPost     `json:"latestPosts"`
	FAQs          []models.FAQ          `json:"faqs"`
	Locations     []models.Location     `json:"locations"`
	Services      []models.Service      `json:"services"`
}

// CarsPage is the fleet page payload.
type CarsPage struct {
	Meta  models.PageMeta  `json:"meta"`
	Types []models.CarType `json:"types"`
	Cars  []models.Car     `json:"cars"`
}

// BlogPage is the blog index payload.
type BlogPage struct {
	Meta  models.PageMeta   `json:"meta"`
	Posts []models.BlogPost `json:"posts"`
}

// StaticPage is the payload for about, contact, terms and privacy.
type StaticPage struct {
	Meta models.PageMeta `json:"meta"`
	Page *models.Page    `json:"page"`
}

// LocationPage is the payload for one location landing page.
type LocationPage struct {
	Meta     models.PageMeta  `json:"meta"`
	Location *models.Location `json:"location"`
}

// ServicePage is the payload for one service landing page.
type ServicePage struct {
	Meta    models.PageMeta `json:"meta"`
	Service *models.Service `json:"service"`
}

// Layout handles GET /api/site/layout.
func (h *Handler) Layout(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, pagecache.LayoutKey, h.buildLayout)
}

func (h *Handler) buildLayout(ctx context.Context) (any, error) {
	out := Layout{
		Settings:   h.settings(ctx),
		HeaderMenu: []models.MenuNode{},
		FooterMenu: []models.MenuNode{},
	}
	out.Meta = h.meta(ctx, "layout", metaInput{Path: "/"})

	var g errgroup.Group
	g.Go(func() error {
		if tree, err := h.menus.Tree(ctx, models.PlacementHeader); err != nil {
			h.degrade("header_menu", err)
		} else {
			out.HeaderMenu = tree
		}
		return nil
	})
	g.Go(func() error {
		if tree, err := h.menus.Tree(ctx, models.PlacementFooter); err != nil {
			h.degrade("footer_menu", err)
		} else {
			out.FooterMenu = tree
		}
		return nil
	})
	_ = g.Wait()
	return out, nil
}

// Home handles GET /api/site/home. The sections load concurrently.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "/", h.buildHome)
}

func (h *Handler) buildHome(ctx context.Context) (any, error) {
	out := Home{
		Notifications: []models.Notification{},
		FeaturedCars:  []models.Car{},
		LatestPosts:   []models.BlogPost{},
		FAQs:          []models.FAQ{},
		Locations:     []models.Location{},
		Services:      []models.Service{},
	}
	now := h.now()
	yes := true

	// Each goroutine owns one field of out; section failures are logged and
	// never abort the group.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Meta = h.meta(gctx, "home", metaInput{Path: "/"})
		return nil
	})
	g.Go(func() error {
		list, err := h.notifications.SelectActive(gctx, models.LocationBanner, now, 1)
		if err != nil {
			h.degrade("banner", err)
		} else if len(list) > 0 {
			out.Banner = &list[0]
		}
		return nil
	})
	g.Go(func() error {
		list, err := h.notifications.SelectActive(gctx, models.LocationHomepage, now, 0)
		if err != nil {
			h.degrade("notifications", err)
		} else {
			out.Notifications = list
		}
		return nil
	})
	g.Go(func() error {
		list, err := h.cars.List(gctx, carstore.Filter{Featured: &yes, Available: &yes, Limit: HomeFeaturedCars})
		if err != nil {
			h.degrade("featured_cars", err)
		} else {
			out.FeaturedCars = list
		}
		return nil
	})
	g.Go(func() error {
		list, err := h.posts.List(gctx, blogstore.Filter{Published: &yes, Limit: HomeLatestPosts})
		if err != nil {
			h.degrade("latest_posts", err)
		} else {
			out.LatestPosts = withExcerpts(list)
		}
		return nil
	})
	g.Go(func() error {
		list, err := h.faqs.List(gctx, true)
		if err != nil {
			h.degrade("faqs", err)
		} else {
			out.FAQs = list
		}
		return nil
	})
	g.Go(func() error {
		list, err := h.locations.List(gctx, true)
		if err != nil {
			h.degrade("locations", err)
		} else {
			out.Locations = list
		}
		return nil
	})
	g.Go(func() error {
		list, err := h.services.List(gctx, true)
		if err != nil {
			h.degrade("services", err)
		} else {
			out.Services = list
		}
		return nil
	})
	_ = g.Wait()
	return out, nil
}

// Cars handles GET /api/site/cars.
func (h *Handler) Cars(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "/cars", func(ctx context.Context) (any, error) {
		out := CarsPage{Types: models.AllCarTypes(), Cars: []models.Car{}}
		out.Meta = h.meta(ctx, "cars", metaInput{
			Path:        "/cars",
			Title:       "Our Fleet",
			Description: "Browse available rental cars by type and price.",
		})
		yes := true
		if list, err := h.cars.List(ctx, carstore.Filter{Available: &yes}); err != nil {
			h.degrade("cars", err)
		} else {
			out.Cars = list
		}
		return out, nil
	})
}

// Blog handles GET /api/site/blog.
func (h *Handler) Blog(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "/blog", func(ctx context.Context) (any, error) {
		out := BlogPage{Posts: []models.BlogPost{}}
		out.Meta = h.meta(ctx, "blog", metaInput{
			Path:        "/blog",
			Title:       "Blog",
			Description: "Travel tips, rental guides and company news.",
		})
		yes := true
		if list, err := h.posts.List(ctx, blogstore.Filter{Published: &yes}); err != nil {
			h.degrade("posts", err)
		} else {
			out.Posts = withExcerpts(list)
		}
		return out, nil
	})
}

// Page handles GET /api/site/pages/{slug} for the fixed static pages.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	slug := normalize.Slug(chi.URLParam(r, "slug"))
	if !models.IsValidPageSlug(slug) {
		jsonutil.NotFound(w, "Page not found")
		return
	}
	path := "/" + slug
	h.serveCached(w, r, path, func(ctx context.Context) (any, error) {
		out := StaticPage{}
		page, err := h.pages.GetBySlug(ctx, slug)
		switch {
		case errors.Is(err, pagestore.ErrNotFound):
			return nil, err
		case err != nil:
			h.degrade("page", err)
			out.Meta = h.meta(ctx, "page:"+slug, metaInput{Path: path})
			return out, nil
		}
		out.Page = page
		out.Meta = h.meta(ctx, "page:"+slug, metaInput{
			Path:        path,
			Title:       page.Title,
			Description: htmlsanitize.Excerpt(page.Content, metaDescriptionLength),
			SEO:         page.SEO,
		})
		return out, nil
	})
}

// Location handles GET /api/site/locations/{slug}.
func (h *Handler) Location(w http.ResponseWriter, r *http.Request) {
	slug := normalize.Slug(chi.URLParam(r, "slug"))
	path := "/locations/" + slug
	h.serveCached(w, r, path, func(ctx context.Context) (any, error) {
		l, err := h.locations.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		city := l.City
		if city == "" {
			city = l.Name
		}
		return LocationPage{
			Location: l,
			Meta: h.meta(ctx, "location:"+slug, metaInput{
				Path:          path,
				Description:   l.Description,
				TitleTemplate: locationTitle,
				Vars:          map[string]string{"name": l.Name, "city": city},
			}),
		}, nil
	})
}

// Service handles GET /api/site/services/{slug}.
func (h *Handler) Service(w http.ResponseWriter, r *http.Request) {
	slug := normalize.Slug(chi.URLParam(r, "slug"))
	path := "/services/" + slug
	h.serveCached(w, r, path, func(ctx context.Context) (any, error) {
		s, err := h.services.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return ServicePage{
			Service: s,
			Meta: h.meta(ctx, "service:"+slug, metaInput{
				Path:          path,
				Description:   s.Description,
				TitleTemplate: serviceTitle,
				Vars:          map[string]string{"name": s.Name},
			}),
		}, nil
	})
}
