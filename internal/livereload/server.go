// Package livereload broadcasts rebuilt file paths to connected browsers over
// socket.io.
package livereload

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/vk/assetgrid/internal/ctxlog"
	"github.com/zishang520/socket.io/v2/socket"
)

// EventReload is the socket.io event carrying a Notification.
const EventReload = "reload"

// DefaultAddr is the address the server listens on when none is configured.
const DefaultAddr = ":35729"

// listenRetries bounds how often a busy port is retried.
const listenRetries = 5

// Notification is the payload of one reload event.
type Notification struct {
	ID    string   `json:"id"`
	Task  string   `json:"task"`
	Files []string `json:"files"`
}

// Server is the live-reload endpoint. It serves socket.io under /socket.io/
// and a health check under /health.
type Server struct {
	addr       string
	io         *socket.Server
	httpServer *http.Server
	listener   net.Listener
	clients    atomic.Int32
	mu         sync.Mutex
	closed     bool
}

// New creates a server for addr; it does not listen yet.
func New(addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{addr: addr}
}

// Start binds the listener, retrying with exponential backoff while the
// address is busy, and serves in the background until Close.
func (s *Server) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	var l net.Listener
	operation := func() error {
		var err error
		l, err = net.Listen("tcp", s.addr)
		if err != nil {
			logger.Warn("Live-reload address unavailable, retrying.", "address", s.addr, "error", err)
		}
		return err
	}
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), listenRetries)
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("live-reload server: %w", err)
	}

	s.io = socket.NewServer(nil, nil)
	s.io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		n := s.clients.Add(1)
		logger.Debug("Live-reload client connected.", "sid", client.Id(), "clients", n)
		client.On("disconnect", func(...any) {
			n := s.clients.Add(-1)
			logger.Debug("Live-reload client disconnected.", "sid", client.Id(), "clients", n)
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", s.io.ServeHandler(nil))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	s.listener = l
	s.httpServer = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logger.Info("🔌 Live-reload server starting.", "address", fmt.Sprintf("http://%s", l.Addr()))
		if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Live-reload server failed unexpectedly.", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int { return int(s.clients.Load()) }

// Notify broadcasts the paths a task wrote.
func (s *Server) Notify(ctx context.Context, task string, paths []string) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if s.io == nil || closed {
		return errors.New("live-reload server is not running")
	}
	if paths == nil {
		paths = []string{}
	}
	n := &Notification{ID: uuid.NewString(), Task: task, Files: paths}
	ctxlog.FromContext(ctx).Info("📣 Notifying live-reload clients.", "id", n.ID, "task", task, "files", len(paths), "clients", s.Clients())
	s.io.Emit(EventReload, n)
	return nil
}

// Close shuts the server down.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.httpServer == nil {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	logger.Info("🔌 Shutting down live-reload server...")

	s.io.Close(nil)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Live-reload server shutdown failed.", "error", err)
		return err
	}
	logger.Debug("Live-reload server shut down gracefully.")
	return nil
}
