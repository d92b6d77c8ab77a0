// Package server exposes the dashboard over HTTP: the page, the rendered
// views and the interaction endpoints that feed the controller loop.
package server

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"

	"github.com/sells-group/healthmap/internal/dashboard"
)

// Dispatcher runs one dashboard event.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev dashboard.Event) (dashboard.Result, error)
}

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	CacheEntries   int
	CacheTTL       time.Duration
	RequestTimeout time.Duration
}

// Server routes dashboard requests.
type Server struct {
	ctrl   Dispatcher
	cache  *RenderCache
	page   *template.Template
	router chi.Router
}

// New builds the router.
func New(ctrl Dispatcher, opts Options) (*Server, error) {
	page, err := parsePage()
	if err != nil {
		return nil, err
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		ctrl:  ctrl,
		cache: NewRenderCache(opts.CacheEntries, opts.CacheTTL),
		page:  page,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Cache", "X-Dashboard-Version"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Route("/views", func(r chi.Router) {
		r.Get("/map.svg", s.handleView(viewMap))
		r.Get("/barchart.svg", s.handleView(viewBarchart))
		r.Get("/grouped.svg", s.handleView(viewGrouped))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/metric", s.handleSetMetric)
		r.Post("/reset", s.handleReset)
		r.Get("/cache/stats", s.handleCacheStats)

		r.Route("/counties/{fips}", func(r chi.Router) {
			r.Post("/select", s.handleSelectCounty)
			r.Get("/hover", s.handleHoverCounty)
			r.Post("/leave", s.handleLeaveCounty)
		})
		r.Route("/bars/{metric}", func(r chi.Router) {
			r.Post("/click", s.handleClickBar)
			r.Get("/hover", s.handleHoverBar)
			r.Post("/leave", s.handleLeaveBar)
		})
	})

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Cache returns the render cache.
func (s *Server) Cache() *RenderCache {
	return s.cache
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	return nil
}
