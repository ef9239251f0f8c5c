package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/atomic"

	"github.com/vango-dev/vrouter/pkg/history"
	"github.com/vango-dev/vrouter/pkg/routepath"
	"github.com/vango-dev/vrouter/pkg/router"
	"github.com/vango-dev/vrouter/pkg/telemetry"
)

// Server exposes a route table over HTTP and drives one router per
// websocket peer, with the peer's URL bar as the router's history.
type Server struct {
	config  *Config
	routes  []router.RouteConfig
	inspect *router.Router

	observers []func() router.Observer
	gatherer  prometheus.Gatherer

	upgrader websocket.Upgrader
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	conns  sync.WaitGroup
	active atomic.Int64

	mu         sync.Mutex
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records navigations of every peer router in m and serves
// g on Config.MetricsPath.
func WithMetrics(m *telemetry.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.observers = append(s.observers, m.Observer)
		s.gatherer = g
	}
}

// WithTracing traces navigations of every peer router.
func WithTracing(t *telemetry.Tracing) Option {
	return func(s *Server) { s.observers = append(s.observers, t.Observer) }
}

// WithObserver registers an observer built by factory on every peer
// router.
func WithObserver(factory func() router.Observer) Option {
	return func(s *Server) { s.observers = append(s.observers, factory) }
}

// New creates a server for routes. The routes are shared by every router
// the server creates.
func New(routes []router.RouteConfig, config *Config, opts ...Option) *Server {
	s := &Server{
		config: config.withDefaults(),
		routes: routes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "server")
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}

	s.inspect = router.New(routes,
		router.WithBase(s.config.Base),
		router.WithMode(s.config.Mode),
		router.WithLogger(s.logger),
	)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  s.config.ReadBufferSize,
		WriteBufferSize: s.config.WriteBufferSize,
		CheckOrigin:     s.config.CheckOrigin,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Router returns the router used to answer inspection requests.
func (s *Server) Router() *router.Router {
	return s.inspect
}

// Connections returns the number of connected peers.
func (s *Server) Connections() int64 {
	return s.active.Load()
}

// Handler returns the HTTP handler:
//   - GET /routes: the route table and its warnings
//   - GET /match?to=...&from=...&append=1: a resolved location
//   - GET /healthz
//   - Config.MetricsPath: Prometheus metrics
//   - Config.WSPath: remote history websocket
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/routes", s.handleRoutes)
	r.Get("/match", s.handleMatch)
	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get(s.config.WSPath, s.HandleWebSocket)
	return r
}

// HandleWebSocket upgrades the request and runs a router for the peer
// until it disconnects. The "location" query parameter is the peer's
// starting URL.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	initial := "/"
	if loc := r.URL.Query().Get("location"); loc != "" {
		canon, err := routepath.CanonicalizeNavPath(loc)
		if err != nil {
			http.Error(w, "invalid location", http.StatusBadRequest)
			return
		}
		initial = canon
	}

	// Peers are counted before the hijack and never after Shutdown has
	// canceled s.ctx, so conns.Wait cannot miss one.
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	s.conns.Add(1)
	s.mu.Unlock()
	defer s.conns.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	s.active.Inc()
	defer s.active.Dec()

	s.serveConn(conn, initial, r.RemoteAddr)
}

func (s *Server) serveConn(conn *websocket.Conn, initial, remoteAddr string) {
	logger := s.logger.With("remote", remoteAddr)
	remote := history.NewRemote(conn, history.RemoteOptions{
		Initial:      initial,
		Codec:        s.config.Codec,
		WriteTimeout: s.config.FrameWriteTimeout,
		ReadTimeout:  s.config.FrameReadTimeout,
		Logger:       logger,
	})
	defer remote.Close()

	rt := router.New(s.routes,
		router.WithBackend(remote),
		router.WithBase(s.config.Base),
		router.WithMode(s.config.Mode),
		router.WithLogger(logger),
	)
	for _, factory := range s.observers {
		rt.Observe(factory())
	}
	rt.Listen(func(route *router.Route) {
		if err := remote.SendRoute(route); err != nil {
			logger.Warn("send route failed", "error", err)
		}
	})

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	defer rt.Stop()

	logger.Debug("peer connected", "location", initial)
	if err := rt.Start(ctx); err != nil {
		logger.Warn("initial navigation failed", "error", err)
	}
	if err := remote.Run(ctx); err != nil {
		logger.Debug("peer read loop ended", "error", err)
	}
	logger.Debug("peer disconnected")
}

// Run listens on Config.Address and serves until ctx ends, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops accepting requests, disconnects every peer and waits
// for their routers to stop.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	// Hijacked websocket connections are not tracked by http.Server.
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}

	if err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}
