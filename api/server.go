package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// Server exposes the search pipeline over HTTP.
type Server struct {
	httpServer *http.Server
	logger     *utils.Logger
}

// NewServer builds the router and wires the handlers.
func NewServer(port string, h *Handlers, logger *utils.Logger) *Server {
	r := mux.NewRouter()

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/search", h.Search).Methods(http.MethodPost)
	apiRouter.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	apiRouter.HandleFunc("/suburbs", h.Suburbs).Methods(http.MethodGet)

	r.Use(requestLogging(logger))

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("[api] Listening on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func requestLogging(logger *utils.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("[api] %s %s (%v)", r.Method, r.URL.Path, time.Since(start))
		})
	}
}
