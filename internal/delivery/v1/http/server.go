package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/DRSN-tech/ecommerce-backend/internal/cfg"
)

const maxHeaderBytes = 1 << 16

type Server struct {
	srv *http.Server
}

func NewServer(handler http.Handler, c *cfg.HTTPConfig) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("", c.Port),
			Handler:           handler,
			ReadHeaderTimeout: c.ReadTimeout,
			ReadTimeout:       c.ReadTimeout,
			WriteTimeout:      c.WriteTimeout,
			IdleTimeout:       c.IdleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
	}
}

// Run блокирует до остановки сервера. Штатная остановка через Stop не считается ошибкой.
func (s *Server) Run() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
