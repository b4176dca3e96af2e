// Package httpapi is the thin HTTP collaborator described by the gift id
// service: it exposes generate/decode/health and calls straight into the
// giftid engine. All engineering depth lives in giftid; this package only
// marshals JSON and maps engine errors to status codes.
package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"giftid/internal/giftid"
)

// Server wraps an http.Server bound to a gift id generator, following the
// teacher-adjacent pattern (grounded in sarchlab-akita's
// monitoring.Monitor.StartServer) of a router built once at construction
// time and a listener acquired separately from Serve.
type Server struct {
	gen *giftid.Generator
	srv *http.Server
	lis net.Listener
}

// New builds a Server that serves gen's identifiers over HTTP.
func New(gen *giftid.Generator) *Server {
	s := &Server{gen: gen}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/gift-id/generate", s.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/gift-id/{id}/decode", s.handleDecode).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	s.srv = &http.Server{
		Handler:           withLogging(withJSONContentType(r)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// ListenAndServe binds addr and serves until ctx is cancelled, at which
// point it shuts down gracefully and returns nil. Any error from the
// listener or the server itself (other than a clean shutdown) is
// returned.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = lis

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(lis) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Addr returns the bound listener's address. Only valid after
// ListenAndServe has started listening.
func (s *Server) Addr() net.Addr {
	if s.lis == nil {
		return nil
	}
	return s.lis.Addr()
}

func withJSONContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
