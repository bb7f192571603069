// Package server exposes a local control surface over the palette: HTTP
// JSON endpoints for querying results and invoking candidates, plus a
// websocket stream of invocation events. It binds to loopback and exists
// for scripting and debugging the shell, not for remote access.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/twistedx/cmdeck/internal/logging"
)

var log = logging.ForComponent(logging.CompServer)

// Config defines runtime options for the control server.
type Config struct {
	ListenAddr string
	Source     ResultSource
}

// Server wraps the HTTP server for the palette control surface.
type Server struct {
	cfg        Config
	httpServer *http.Server
	source     ResultSource
	baseCtx    context.Context
	cancelBase context.CancelFunc

	eventSubscribersMu sync.Mutex
	eventSubscribers   map[chan eventMessage]struct{}
}

// NewServer creates a control server with base routes and middleware.
func NewServer(cfg Config) *Server {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:8427"
	}

	s := &Server{
		cfg:              cfg,
		source:           cfg.Source,
		eventSubscribers: make(map[chan eventMessage]struct{}),
	}
	s.baseCtx, s.cancelBase = context.WithCancel(context.Background())

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/palette/results", s.handleResults)
	mux.HandleFunc("/api/palette/invoke", s.handleInvoke)
	mux.HandleFunc("/ws/events", s.handleEventsWS)

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           withRecover(mux),
		BaseContext:       func(_ net.Listener) context.Context { return s.baseCtx },
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the configured HTTP handler (used by tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server and blocks until shutdown or error.
// Returns nil on graceful shutdown.
func (s *Server) Start() error {
	log.Info("server_listening", slog.String("addr", s.cfg.ListenAddr))
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancelBase != nil {
		// Signal long-lived websocket handlers to stop promptly.
		s.cancelBase()
	}

	err := s.httpServer.Shutdown(ctx)
	if err == nil {
		return nil
	}

	// Open websocket connections may still block graceful shutdown. Force
	// close as a fallback so Ctrl+C exits promptly.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		if closeErr := s.httpServer.Close(); closeErr == nil {
			return nil
		} else {
			return fmt.Errorf("graceful shutdown timed out and force close failed: %w", closeErr)
		}
	}

	return err
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic",
					slog.String("recover", fmt.Sprintf("%v", rec)),
					slog.String("path", r.URL.Path))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) subscribeEvents() chan eventMessage {
	ch := make(chan eventMessage, 8)
	s.eventSubscribersMu.Lock()
	s.eventSubscribers[ch] = struct{}{}
	s.eventSubscribersMu.Unlock()
	return ch
}

func (s *Server) unsubscribeEvents(ch chan eventMessage) {
	if ch == nil {
		return
	}
	s.eventSubscribersMu.Lock()
	if _, ok := s.eventSubscribers[ch]; ok {
		delete(s.eventSubscribers, ch)
		close(ch)
	}
	s.eventSubscribersMu.Unlock()
}

func (s *Server) notifyEvent(msg eventMessage) {
	s.eventSubscribersMu.Lock()
	for ch := range s.eventSubscribers {
		select {
		case ch <- msg:
		default:
		}
	}
	s.eventSubscribersMu.Unlock()
}
