package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vertere-lang/vertere/internal/cache"
)

// Server is the compiler's HTTP API: compile-on-request plus a streaming
// diagnostics websocket, backed by an optional compile-result cache.
type Server struct {
	auth   *AuthService
	cache  *cache.CompileCache
	logger *zap.Logger
	hub    *Hub
}

// Option configures a Server.
type Option func(*Server)

// WithCache attaches a compile-result cache consulted before codegen.
func WithCache(c *cache.CompileCache) Option {
	return func(s *Server) { s.cache = c }
}

// WithLogger overrides the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer constructs a Server with the given JWT secret and options.
func NewServer(jwtSecret string, opts ...Option) *Server {
	s := &Server{
		auth:   NewAuthService(jwtSecret, 24*time.Hour),
		logger: zap.NewNop(),
		hub:    newHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.hub.run()
	return s
}

// Router builds the chi mux exposing /healthz, /compile, and /ws.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealthz)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.RequireAuth)
		r.Post("/compile", s.handleCompile)
		r.Get("/ws", s.handleWebsocket)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
