package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/export"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/order"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/pipeline"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/public"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/search"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/session"
)

type Handlers struct {
	Session   *session.Handler
	Estimates *estimate.Handler
	Orders    *order.Handler
	Pipeline  *pipeline.Handler
	Contacts  *contact.Handler
	Search    *search.Handler
	Export    *export.Handler
	Public    *public.Handler
}

type Options struct {
	// Auth guards the operator routes. Nil leaves them open.
	Auth           *auth.Manager
	AllowedOrigins []string
	Timeout        time.Duration
	// PublicRateLimit caps login and share-link requests per client IP per minute.
	PublicRateLimit int
	Production      bool
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        opts.Production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !opts.Production,
	})

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := secureMiddleware.Process(w, r); err != nil {
				slog.Warn("secure headers blocked request", "path", r.URL.Path, "error", err)
				return
			}

			next.ServeHTTP(w, r)
		})
	})
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	limit := opts.PublicRateLimit
	if limit <= 0 {
		limit = 30
	}

	publicLimiter := httprate.LimitByIP(limit, time.Minute)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(publicLimiter)
			h.Session.Routes(r)
		})

		r.Route("/public", func(r chi.Router) {
			r.Use(publicLimiter)
			h.Public.Routes(r)
		})

		r.Group(func(r chi.Router) {
			if opts.Auth != nil {
				r.Use(opts.Auth.Middleware)
			}

			r.Route("/estimates", h.Estimates.Routes)
			r.Route("/orders", h.Orders.Routes)
			r.Route("/pipeline", h.Pipeline.Routes)
			r.Route("/customers", h.Contacts.CustomerRoutes)
			r.Route("/vendors", h.Contacts.VendorRoutes)
			r.Route("/search", h.Search.Routes)
			r.Route("/export", h.Export.Routes)
		})
	})

	return router
}
