// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	assistfeature "github.com/dalemusser/wavesite/internal/app/features/assist"
	auditlogfeature "github.com/dalemusser/wavesite/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	healthfeature "github.com/dalemusser/wavesite/internal/app/features/health"
	homepagefeature "github.com/dalemusser/wavesite/internal/app/features/homepage"
	inquiriesfeature "github.com/dalemusser/wavesite/internal/app/features/inquiries"
	loginfeature "github.com/dalemusser/wavesite/internal/app/features/login"
	logoutfeature "github.com/dalemusser/wavesite/internal/app/features/logout"
	postsfeature "github.com/dalemusser/wavesite/internal/app/features/posts"
	pricingfeature "github.com/dalemusser/wavesite/internal/app/features/pricing"
	projectsfeature "github.com/dalemusser/wavesite/internal/app/features/projects"
	servicesfeature "github.com/dalemusser/wavesite/internal/app/features/services"
	settingsfeature "github.com/dalemusser/wavesite/internal/app/features/settings"
	sitemapfeature "github.com/dalemusser/wavesite/internal/app/features/sitemap"
	teamfeature "github.com/dalemusser/wavesite/internal/app/features/team"
	techstackfeature "github.com/dalemusser/wavesite/internal/app/features/techstack"
	testimonialsfeature "github.com/dalemusser/wavesite/internal/app/features/testimonials"
	"github.com/dalemusser/wavesite/internal/app/system/apicors"
	"github.com/dalemusser/wavesite/internal/app/system/assist"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/auth"
	"github.com/dalemusser/wavesite/internal/app/system/uploads"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the site.
//
// Three surfaces share one router:
//   - /api/site/*: public read API and form submissions. Permissive CORS,
//     no cookies, no CSRF, GET responses served through the page cache.
//   - /api/admin/*: content management. Admin session or Bearer API key;
//     cookie-authenticated writes need a CSRF token.
//   - /admin/login, /admin/logout: session sign-in for the admin UI.
//
// Plus /sitemap.xml, uploaded images and health probes.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	if deps.Credentials != nil {
		sessionMgr.SetAdminUsername(deps.Credentials.Username())
	}

	errLog := errorsfeature.NewErrorLogger(logger)

	// A nil *audit.Store must not become a non-nil Sink.
	var sink auditlog.Sink
	if deps.AuditStore != nil {
		sink = deps.AuditStore
	}
	auditLogger := auditlog.New(sink, logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Content: appCfg.AuditLogContent,
	})

	images := uploads.New(deps.FileStorage, func(r *http.Request, s uploads.Stored) {
		auditLogger.ImageUploaded(r.Context(), r, s.Path, s.Size)
	})

	stores := deps.Stores
	cache := deps.Cache

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: generation calls are the slowest requests.
	r.Use(chimw.Timeout(60 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Session middleware: loads the admin into context if signed in.
	r.Use(sessionMgr.LoadAdmin)

	r.Use(csrfMiddleware(appCfg, secure, logger))

	// ─────────────────────────────────────────────────────────────────────────────
	// Content handlers
	// ─────────────────────────────────────────────────────────────────────────────

	postsHandler := postsfeature.NewHandler(stores.Posts, images, auditLogger, errLog, logger)
	projectsHandler := projectsfeature.NewHandler(stores.Projects, images, auditLogger, errLog, logger)
	servicesHandler := servicesfeature.NewHandler(stores.Services, images, auditLogger, errLog, logger)
	teamHandler := teamfeature.NewHandler(stores.Team, images, auditLogger, errLog, logger)
	testimonialsHandler := testimonialsfeature.NewHandler(stores.Testimonials, images, auditLogger, errLog, logger)
	techstackHandler := techstackfeature.NewHandler(stores.TechStack, auditLogger, errLog, logger)
	pricingHandler := pricingfeature.NewHandler(stores.Pricing, auditLogger, errLog, logger)
	settingsHandler := settingsfeature.NewHandler(stores.Settings, auditLogger, errLog, logger)
	homepageHandler := homepagefeature.NewHandler(stores.Homepage, auditLogger, errLog, logger)

	inquiriesHandler := inquiriesfeature.NewHandler(stores.Inquiries, auditLogger, errLog, logger)
	if deps.Mailer.Enabled() {
		inquiriesHandler.SetNotify(deps.Mailer.InquiryNotifier(func(ctx context.Context) string {
			if appCfg.MailNotifyTo != "" {
				return appCfg.MailNotifyTo
			}
			s, err := stores.Settings.Get(ctx)
			if err != nil {
				logger.Warn("failed to load contact email for inquiry notice", zap.Error(err))
				return ""
			}
			return s.ContactEmail
		}))
	}

	model := deps.Model
	if model == nil {
		model = assist.Unavailable{}
	}
	assistHandler := assistfeature.NewHandler(assist.New(model, logger), stores.Posts, stores.Inquiries, auditLogger, errLog, logger)

	// ─────────────────────────────────────────────────────────────────────────────
	// Public site API
	// ─────────────────────────────────────────────────────────────────────────────

	r.Route("/api/site", func(sr chi.Router) {
		sr.Use(apicors.Middleware(appCfg.SiteAPIOrigins...))
		sr.Mount("/posts", postsfeature.PublicRoutes(postsHandler, cache))
		sr.Mount("/projects", projectsfeature.PublicRoutes(projectsHandler, cache))
		sr.Mount("/services", servicesfeature.PublicRoutes(servicesHandler, cache))
		sr.Mount("/team", teamfeature.PublicRoutes(teamHandler, cache))
		sr.Mount("/testimonials", testimonialsfeature.PublicRoutes(testimonialsHandler, cache))
		sr.Mount("/techstack", techstackfeature.PublicRoutes(techstackHandler, cache))
		sr.Mount("/pricing", pricingfeature.PublicRoutes(pricingHandler, cache))
		sr.Mount("/settings", settingsfeature.PublicRoutes(settingsHandler, cache))
		sr.Mount("/homepage", homepagefeature.PublicRoutes(homepageHandler, cache))
		sr.Mount("/inquiries", inquiriesfeature.PublicRoutes(inquiriesHandler))
		sr.Mount("/assist", assistfeature.PublicRoutes(assistHandler))
	})

	// ─────────────────────────────────────────────────────────────────────────────
	// Admin API (session or API key)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Route("/api/admin", func(sr chi.Router) {
		sr.Use(auth.Gate(appCfg.APIKey, logger))
		sr.Mount("/posts", postsfeature.AdminRoutes(postsHandler))
		sr.Mount("/projects", projectsfeature.AdminRoutes(projectsHandler))
		sr.Mount("/services", servicesfeature.AdminRoutes(servicesHandler))
		sr.Mount("/team", teamfeature.AdminRoutes(teamHandler))
		sr.Mount("/testimonials", testimonialsfeature.AdminRoutes(testimonialsHandler))
		sr.Mount("/techstack", techstackfeature.AdminRoutes(techstackHandler))
		sr.Mount("/pricing", pricingfeature.AdminRoutes(pricingHandler))
		sr.Route("/settings", settingsHandler.MountRoutes)
		sr.Mount("/homepage", homepagefeature.AdminRoutes(homepageHandler))
		sr.Mount("/inquiries", inquiriesfeature.AdminRoutes(inquiriesHandler))
		sr.Mount("/assist", assistfeature.AdminRoutes(assistHandler))

		// Audit events are only queryable when they are stored.
		if deps.AuditStore != nil {
			auditLogHandler := auditlogfeature.NewHandler(deps.AuditStore, errLog, logger)
			sr.Mount("/audit", auditlogfeature.Routes(auditLogHandler))
		}
	})

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.Credentials, sessionMgr, auditLogger, errLog, logger)
	r.Mount("/admin/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLogger)
	r.Mount("/admin/logout", logoutfeature.Routes(logoutHandler))

	// ─────────────────────────────────────────────────────────────────────────────
	// Sitemap, uploads, health
	// ─────────────────────────────────────────────────────────────────────────────

	sitemapHandler := sitemapfeature.NewHandler(appCfg.SiteURL, sitemapfeature.Sources{
		Posts:    stores.Posts.All,
		Services: stores.Services.All,
		Projects: stores.Projects.All,
	}, errLog, logger)
	r.Method(http.MethodGet, "/sitemap.xml", sitemapHandler)

	// Uploaded images (local storage only)
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		prefix := strings.TrimRight(appCfg.StorageLocalURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.StorageLocalPath))
	}

	checks := []healthfeature.Check{healthfeature.BackendCheck(deps.Backend)}
	if deps.MongoClient != nil {
		checks = append(checks, healthfeature.MongoCheck(deps.MongoClient))
	}
	if deps.Redis != nil {
		checks = append(checks, healthfeature.RedisCheck(deps.Redis))
	}
	if deps.NATS != nil {
		checks = append(checks, healthfeature.NATSCheck(deps.NATS))
	}
	healthHandler := healthfeature.NewHandler(logger, checks...)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r, nil
}

// csrfMiddleware protects cookie-authenticated writes. The public API sets
// no cookies and Bearer-key requests carry no ambient credentials, so both
// skip the check.
func csrfMiddleware(appCfg AppConfig, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("wavesite_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
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
	protect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	return func(next http.Handler) http.Handler {
		csrfHandler := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if skipCSRF(req, appCfg.APIKey) {
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	}
}

func skipCSRF(r *http.Request, apiKey string) bool {
	if r.URL.Path == "/api/site" || strings.HasPrefix(r.URL.Path, "/api/site/") {
		return true
	}
	return auth.ValidAPIKey(r, apiKey)
}
