package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Server is the HTTP listener for the API.
type Server struct {
	HTTP *http.Server
	Log  *slog.Logger
}

// NewServer builds a server on addr with read and write timeouts.
func NewServer(addr string, log *slog.Logger, h *Handlers) *Server {
	hs := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second, // ranking values the whole dataset
		IdleTimeout:       60 * time.Second,
	}
	return &Server{HTTP: hs, Log: log}
}

// Start listens until the server is stopped.
func (s *Server) Start() error {
	s.Log.Info("http server starting", "addr", s.HTTP.Addr)
	return s.HTTP.ListenAndServe()
}

// Stop shuts the server down gracefully within ctx.
func (s *Server) Stop(ctx context.Context) error {
	s.Log.Info("http server stopping")
	return s.HTTP.Shutdown(ctx)
}
