package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/accesskit/accesskit/internal/consent"
	"github.com/accesskit/accesskit/internal/db"
	"github.com/accesskit/accesskit/internal/docs"
	"github.com/accesskit/accesskit/internal/site"
)

// Config holds server configuration.
type Config struct {
	Port    int
	DataDir string // directory for the SQLite DB
	// ReportEndpoint, when set, receives fire-and-forget consent
	// reports.
	ReportEndpoint string
	// GuideAutoDismiss auto-hides the shortcut guide after this long.
	GuideAutoDismiss time.Duration
	AllowAll         bool // allow all CORS origins (dev mode)
}

// Server is the widget delivery and visitor state server.
type Server struct {
	cfg        Config
	db         *db.DB
	sites      *site.Store
	reporter   *consent.Reporter
	sessions   *sessionCache
	hub        *liveHub
	log        *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over the given database.
func New(cfg Config, database *db.DB, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		db:       database,
		sites:    site.NewStore(database),
		reporter: consent.NewReporter(cfg.ReportEndpoint, log),
		sessions: newSessionCache(),
		hub:      newLiveHub(),
		log:      log,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS. The loader runs on third-party host pages, so the state
	// API must answer cross-origin; origins are checked against the
	// site registry unless dev mode allows everything.
	corsOpts := cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	} else {
		corsOpts.AllowOriginFunc = s.originRegistered
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Widget delivery and visitor state.
	r.Get("/widget/{siteID}.js", s.handleLoader)
	s.registerVisitorRoutes(r)
	r.Get("/api/sites/{siteID}/live", s.handleLive)

	// Registry management (dashboard-facing).
	site.RegisterRoutes(r, s.sites)

	// Integration guide.
	docs.RegisterRoutes(r)

	return r
}

// requestLogger logs one debug line per request. The state API is
// chatty (every visitor interaction is a call), so anything louder
// than debug would drown the log.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)))
	})
}

// originRegistered reports whether the request origin belongs to a
// registered, enabled site. A registry failure closes the door rather
// than opening it.
func (s *Server) originRegistered(r *http.Request, origin string) bool {
	sites, err := s.sites.List(r.Context())
	if err != nil {
		s.log.Warn("origin check failed", zap.Error(err))
		return false
	}
	for _, st := range sites {
		if st.Enabled && st.Origin == origin {
			return true
		}
	}
	return false
}

// Router returns the chi router, useful for tests.
func (s *Server) Router() chi.Router { return s.router }

// Sites returns the site registry store.
func (s *Server) Sites() *site.Store { return s.sites }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("accesskit server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
