package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bagdasarian/org-service/internal/handler"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	server *http.Server
}

// NewHTTPHandler собирает маршруты и общие middleware
func NewHTTPHandler(h *handler.Handler, verifier handler.TokenVerifier) http.Handler {
	mux := http.NewServeMux()
	SetupRoutes(mux, h, verifier)

	var root http.Handler = mux
	root = handler.Recover(root)
	root = handler.RequestLogger(root)
	return otelhttp.NewHandler(root, "org-service")
}

func NewServer(h *handler.Handler, verifier handler.TokenVerifier, addr string) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewHTTPHandler(h, verifier),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("server starting")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
