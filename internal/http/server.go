package http

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"erp/internal/cache"
	applog "erp/internal/log"
	"erp/internal/middleware/ratelimit"
	"erp/internal/middleware/security"
	"erp/internal/quote"
	"erp/internal/services"
	appweb "erp/web"
)

// templates are parsed once from the embedded filesystem.
var templates = template.Must(
	template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html"),
)

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Logger          *applog.Logger
	Company         string
	SessionTTL      time.Duration
	MetricsEnabled  bool
	CleanupInterval time.Duration
	RateLimit       ratelimit.Config
	Now             func() time.Time
}

// Server is the dashboard's http.Server with its routes and the
// background cleanup of quote sessions.
type Server struct {
	http.Server
	dash         *services.Dashboard
	caches       *cache.Manager
	limiter      *ratelimit.Limiter
	logger       *applog.Logger
	company      string
	sessionTTL   time.Duration
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server. The
// session cleanup goroutine starts immediately; Shutdown stops it.
func NewServer(addr string, dash *services.Dashboard, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.Company == "" {
		opts.Company = quote.DefaultCompany
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 10 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		dash:       dash,
		caches:     cache.NewManager(),
		limiter:    ratelimit.NewLimiter(opts.RateLimit),
		logger:     opts.Logger.WithComponent(applog.ComponentHTTP),
		company:    opts.Company,
		sessionTTL: opts.SessionTTL,
		now:        opts.Now,
	}
	s.Addr = addr
	s.Handler = s.routes(opts)

	s.caches.Register(dash.Sessions())
	s.caches.Register(s.limiter.Cache())
	s.caches.StartCleanup(opts.CleanupInterval)

	return s
}

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(applog.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(security.NewDetector(s.logger.Logger).Middleware)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)
	if opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Group(func(r chi.Router) {
		r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
		r.Use(s.limiter.Middleware(clientIP))

		r.Get("/", s.handleIndex)

		r.Route("/ui", func(r chi.Router) {
			r.Get("/summary", s.partialHandler("summary"))
			r.Get("/profit", s.partialHandler("profit"))
			r.Get("/revenues", s.partialHandler("revenues"))
			r.Get("/costs", s.partialHandler("costs"))
			r.Get("/quote", s.handleQuotePartial)
		})

		r.Post("/revenues", s.handleAddRevenue)
		r.Delete("/revenues/{id}", s.handleRemoveRevenue)
		r.Post("/revenues/{id}/delete", s.handleRemoveRevenue)
		r.Post("/costs", s.handleAddCost)
		r.Delete("/costs/{id}", s.handleRemoveCost)
		r.Post("/costs/{id}/delete", s.handleRemoveCost)

		r.Route("/quote", func(r chi.Router) {
			r.Post("/client", s.handleQuoteClient)
			r.Post("/items", s.handleQuoteAddItem)
			r.Delete("/items/{id}", s.handleQuoteRemoveItem)
			r.Post("/items/{id}/delete", s.handleQuoteRemoveItem)
			r.Post("/reset", s.handleQuoteReset)
			r.With(security.NoStore).Post("/generate", s.handleQuoteGenerate)
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(security.NoStore)
			r.Get("/summary", s.handleAPISummary)
			r.Get("/charts/monthly", s.handleAPIMonthly)
			r.Get("/charts/categories", s.handleAPICategories)
			r.Get("/revenues", s.handleAPIRevenues)
			r.Delete("/revenues/{id}", s.handleAPIRemoveRevenue)
			r.Get("/costs", s.handleAPICosts)
			r.Delete("/costs/{id}", s.handleAPIRemoveCost)
			r.Post("/export", s.handleExport)
		})
	})

	return r
}

// Shutdown stops the session cleanup and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session := quoteSession(w, r, s.sessionTTL)
	s.renderPage(w, r, http.StatusOK, s.page(session))
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.templateFailed(w, r, "index.html", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderPartial executes one named partial into the body of resp.
func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, name string, data pageData, resp *HTMXResponseBuilder) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.templateFailed(w, r, name, err)
		return
	}
	resp.BodyHTML(buf.String()).Write(w)
}

func (s *Server) partialHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPartial(w, r, name, s.page(""), NewHTMXResponse())
	}
}

func (s *Server) templateFailed(w http.ResponseWriter, r *http.Request, name string, err error) {
	applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(),
		"Template execution failed", err, applog.ComponentTemplate, applog.OpRender,
		applog.LogFields{"template": name})
	InternalServerError("Erro ao montar a página").Write(w)
}
