package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/metrics"
	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/protocol"
	"github.com/vango-dev/scenesync/pkg/transport"
)

// Server accepts native hosts and runs one engine per connection.
type Server struct {
	config  *Config
	handler Handler
	logger  *slog.Logger

	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	upgrader   websocket.Upgrader
	httpServer *http.Server

	// base is cancelled on Shutdown; every client's read loop watches it.
	base   context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	clients map[string]*Client
	wg      sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics instruments every client's scene with m and serves g on
// Config.MetricsPath.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// New creates a server that mounts handler on every connection.
func New(config *Config, handler Handler, opts ...Option) *Server {
	config = config.withDefaults()
	s := &Server{
		config:  config,
		handler: handler,
		logger:  slog.Default(),
		clients: make(map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")
	s.base, s.cancel = context.WithCancel(context.Background())
	return s
}

// Handler returns the HTTP handler: the WebSocket endpoint, the metrics
// endpoint when configured, and a health check.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get(s.config.Path, s.HandleWebSocket)
	if s.gatherer != nil && s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

// HandleWebSocket upgrades the request and serves the client until it
// disconnects.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.base.Err() != nil {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	if limit := s.config.MaxSessions; limit > 0 && s.Clients() >= limit {
		s.logger.Warn("rejecting connection", "error", ErrMaxSessionsReached, "max", limit)
		http.Error(w, ErrMaxSessionsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	// The request context ends with the upgrade; the client lives until
	// the server shuts down.
	if err := s.Serve(s.base, conn); err != nil {
		s.logger.Warn("client ended", "error", err)
	}
}

// Serve runs one client on an established connection. It returns when the
// connection closes, ctx is done or the server shuts down.
func (s *Server) Serve(ctx context.Context, conn transport.Conn) error {
	s.wg.Add(1)
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.base, cancel)
	defer stop()

	sessCfg := *s.config.Session
	if sessCfg.Logger == nil {
		sessCfg.Logger = s.logger
	}
	sess := transport.NewSession(conn, &sessCfg)
	defer sess.Close()

	if s.config.NewCapture != nil {
		sink, err := s.config.NewCapture(sess.ID())
		if err != nil {
			return &ClientError{SessionID: sess.ID(), Op: "capture", Err: err}
		}
		// The session owns the sink from here on and closes it.
		sess.SetCapture(sink)
	}

	logger := s.logger.With("session_id", sess.ID())
	var scene native.Scene = sess
	if s.metrics != nil {
		scene = s.metrics.Instrument(sess)
		s.metrics.SessionOpened()
		defer s.metrics.SessionClosed()
	}

	engOpts := append([]engine.Option{engine.WithLogger(logger)}, s.config.Engine...)
	c := &Client{
		Session: sess,
		Engine:  engine.New(engOpts...),
		Scene:   scene,
		Logger:  logger,
	}
	s.track(c)
	defer s.untrack(c)
	logger.Info("client connected")

	if err := s.handler(ctx, c); err != nil {
		sess.SendError(protocol.ErrServerError, sess.Seq(), err.Error(), true)
		return &ClientError{SessionID: sess.ID(), Op: "mount", Err: err}
	}

	err := sess.ReadLoop(ctx, transport.DispatchFunc(func(ev native.Event) bool {
		handled := c.Engine.Dispatch(ev)
		if s.metrics != nil {
			s.metrics.ObserveEvent(ev, handled)
		}
		return handled
	}))
	if err != nil {
		return &ClientError{SessionID: sess.ID(), Op: "read", Err: err}
	}
	return nil
}

func (s *Server) track(c *Client) {
	s.mu.Lock()
	s.clients[c.ID()] = c
	s.mu.Unlock()
}

func (s *Server) untrack(c *Client) {
	s.mu.Lock()
	delete(s.clients, c.ID())
	s.mu.Unlock()
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Run listens on Config.Address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address,
		Handler: s.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server starting", "address", s.config.Address, "path", s.config.Path)
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	})
	return g.Wait()
}

// Shutdown closes every client and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Config returns the server configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}
