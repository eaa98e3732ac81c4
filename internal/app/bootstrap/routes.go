// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	auditlogfeature "github.com/dalemusser/stratarent/internal/app/features/auditlog"
	authapifeature "github.com/dalemusser/stratarent/internal/app/features/authapi"
	blogfeature "github.com/dalemusser/stratarent/internal/app/features/blog"
	bookingsfeature "github.com/dalemusser/stratarent/internal/app/features/bookings"
	carsfeature "github.com/dalemusser/stratarent/internal/app/features/cars"
	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	faqsfeature "github.com/dalemusser/stratarent/internal/app/features/faqs"
	healthfeature "github.com/dalemusser/stratarent/internal/app/features/health"
	landingfeature "github.com/dalemusser/stratarent/internal/app/features/landing"
	menusfeature "github.com/dalemusser/stratarent/internal/app/features/menus"
	notificationsfeature "github.com/dalemusser/stratarent/internal/app/features/notifications"
	pagesfeature "github.com/dalemusser/stratarent/internal/app/features/pages"
	revalidatefeature "github.com/dalemusser/stratarent/internal/app/features/revalidate"
	seosettingsfeature "github.com/dalemusser/stratarent/internal/app/features/seosettings"
	sitefeature "github.com/dalemusser/stratarent/internal/app/features/site"
	subscribersfeature "github.com/dalemusser/stratarent/internal/app/features/subscribers"
	uploadfeature "github.com/dalemusser/stratarent/internal/app/features/upload"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	"github.com/dalemusser/stratarent/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/stratarent/internal/app/store/users"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/gate"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/app/system/metrics"
	"github.com/dalemusser/stratarent/internal/app/system/pagecache"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. The JSON API lives under /api; robots.txt,
// sitemap.xml, health probes, metrics, uploads and the gated admin UI shell
// are mounted at the root.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// The cookie only carries the user id; role and status are read fresh on
	// every request so demotions and disables take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	auditLogger := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Content: appCfg.AuditLogAdmin,
	})

	cache := pagecache.New(pagecache.Config{
		MetadataTTL: appCfg.MetadataCacheTTL,
		PageTTL:     appCfg.PageCacheTTL,
	}, logger)

	// Rate limiting for login attempts (nil if disabled)
	var rateLimitStore *ratelimit.Store
	if appCfg.RateLimitEnabled {
		rateLimitStore = ratelimit.New(
			deps.MongoDatabase,
			appCfg.RateLimitLoginAttempts,
			appCfg.RateLimitLoginWindow,
			appCfg.RateLimitLoginLockout,
		)
	}

	adminGate := gate.New(gate.Config{
		Prefix:    appCfg.AdminPrefix,
		LoginPath: appCfg.AdminLoginPath,
	}, logger)

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(metrics.Middleware)
	r.Use(chimw.RequestID)

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Session middleware: loads the principal into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// CSRF protection for every unsafe method. Browser clients fetch a token
	// from /api/auth/csrf and echo it in X-CSRF-Token.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("stratarent_csrf"),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			jsonutil.Error(w, http.StatusForbidden, "CSRF token invalid or missing")
		})),
	}
	// In dev mode, trust localhost origins (the admin UI dev server).
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...))

	// Admin UI paths redirect to the login page without an admin session.
	r.Use(adminGate.Middleware)

	// ─────────────────────────────────────────────────────────────────────────────
	// Operational endpoints
	// ─────────────────────────────────────────────────────────────────────────────

	healthHandler := healthfeature.NewHandler(deps.Connector, cache, logger)
	if taskRunner != nil {
		healthHandler.WithJobs(taskRunner)
	}
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	r.Handle("/metrics", metrics.Handler())

	// ─────────────────────────────────────────────────────────────────────────────
	// JSON API
	// ─────────────────────────────────────────────────────────────────────────────

	siteHandler := sitefeature.NewHandler(deps.MongoDatabase, cache, appCfg.BaseURL, logger)
	subscribersHandler := subscribersfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	landingHandler := landingfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog)

	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", authapifeature.Routes(authapifeature.NewHandler(
			deps.MongoDatabase,
			sessionMgr,
			rateLimitStore,
			auditLogger,
			errLog,
			logger,
		)))

		// Content endpoints: public reads, admin writes.
		api.Mount("/cars", carsfeature.Routes(carsfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog)))
		api.Mount("/blog", blogfeature.Routes(blogfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog)))
		api.Mount("/faqs", faqsfeature.Routes(faqsfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog)))
		api.Mount("/notifications", notificationsfeature.Routes(notificationsfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog)))
		api.Mount("/bookings", bookingsfeature.Routes(bookingsfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog)))
		api.Mount("/menus", menusfeature.Routes(menusfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog)))
		api.Mount("/pages", pagesfeature.Routes(pagesfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog)))
		api.Mount("/locations", landingfeature.LocationRoutes(landingHandler))
		api.Mount("/services", landingfeature.ServiceRoutes(landingHandler))
		api.Mount("/seo-settings", seosettingsfeature.Routes(seosettingsfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog)))

		// Newsletter: POST /api/subscribe, POST /api/unsubscribe, GET /api/subscribers
		api.Mount("/subscribers", subscribersfeature.AdminRoutes(subscribersHandler))
		subscribersfeature.MountPublic(api, subscribersHandler)

		api.Mount("/upload", uploadfeature.Routes(uploadfeature.NewHandler(deps.FileStorage, auditLogger, errLog)))
		api.Mount("/revalidate", revalidatefeature.Routes(revalidatefeature.NewHandler(cache, auditLogger, errLog)))
		api.Mount("/audit-logs", auditlogfeature.Routes(auditlogfeature.NewHandler(deps.MongoDatabase, errLog, logger)))

		// Cached page payloads for the rendering layer.
		api.Mount("/site", sitefeature.Routes(siteHandler))
	})

	r.Get("/robots.txt", siteHandler.Robots)
	r.Get("/sitemap.xml", siteHandler.Sitemap)

	// ─────────────────────────────────────────────────────────────────────────────
	// Static files
	// ─────────────────────────────────────────────────────────────────────────────

	// Uploaded files (local storage only)
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "static"))

	// Admin UI shell. The gate above has already checked the session.
	adminUI := fileserver.Handler(appCfg.AdminPrefix, appCfg.AdminUIPath)
	r.Handle(appCfg.AdminPrefix, adminUI)
	r.Handle(appCfg.AdminPrefix+"/*", adminUI)

	return r, nil
}
