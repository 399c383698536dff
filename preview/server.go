// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"rivaas.dev/logging"
	"rivaas.dev/router"

	"rivaas.dev/edge/config"
	"rivaas.dev/edge/httpedge"
)

// HeaderRequestID carries the request ID on requests and responses.
const HeaderRequestID = "X-Request-ID"

// Option defines functional options for [NewServer].
type Option func(*options)

type options struct {
	logger *logging.Logger
	fsys   fs.FS
}

// WithLogger sets the logger for requests, redirects and lifecycle events.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFS serves files from fsys instead of the server.root directory.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// Server runs a viewer transformer, an origin transformer and a [Store] in
// the order the CDN applies them.
type Server struct {
	addr    string
	grace   time.Duration
	handler http.Handler
	logger  *logging.Logger
}

// NewServer builds a server from settings.
//
// Errors:
//   - [*edge.ConfigError] if the domain or default document is invalid
func NewServer(settings *config.Settings, opts ...Option) (*Server, error) {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.logger == nil {
		o.logger = logging.MustNew(logging.WithOutput(io.Discard))
	}
	if o.fsys == nil {
		o.fsys = os.DirFS(settings.Server.Root)
	}

	viewer, err := settings.Viewer()
	if err != nil {
		return nil, err
	}
	origin, err := settings.Origin()
	if err != nil {
		return nil, err
	}

	store := NewStore(o.fsys)
	r, err := router.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}
	r.GET("/*", store.Handle)
	r.HEAD("/*", store.Handle)
	r.NoRoute(store.Handle)

	logOpt := httpedge.WithLogger(o.logger)
	handler := httpedge.WrapViewer(httpedge.WrapOrigin(r, origin, logOpt), viewer, logOpt)

	return &Server{
		addr:    settings.Server.Addr,
		grace:   settings.Server.Grace,
		handler: logRequests(handler, o.logger),
		logger:  o.logger,
	}, nil
}

// MustNewServer is like [NewServer] but panics on error.
func MustNewServer(settings *config.Settings, opts ...Option) *Server {
	s, err := NewServer(settings, opts...)
	if err != nil {
		panic(fmt.Sprintf("preview: failed to create server: %v", err))
	}
	return s
}

// Handler returns the complete request chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is canceled.
//
// Example:
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer cancel()
//
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
func (s *Server) Run(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully,
// waiting at most server.grace for open requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("preview server started", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("preview server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.Info("preview server shutting down", "reason", ctx.Err())
	}

	// ctx is already canceled; the grace period needs a fresh context.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview server forced to shutdown: %w", err)
	}
	s.logger.Info("preview server exited")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// logRequests tags every request with an ID and logs it once answered.
// Client-supplied IDs are kept.
func logRequests(next http.Handler, logger *logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		logger.LogRequest(r,
			"host", r.Host,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", id,
		)
	})
}
