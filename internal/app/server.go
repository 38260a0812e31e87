// Package app assembles the proxy: counter store, rate limiter,
// upstream clients, middleware chain, and the HTTP server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"notespy/internal/config"
	"notespy/internal/handler"
	"notespy/internal/middleware/cors"
	metricsmw "notespy/internal/middleware/metrics"
	"notespy/internal/middleware/ratelimit"
	"notespy/internal/middleware/recovery"
	"notespy/internal/middleware/security"
	"notespy/internal/storage"
	"notespy/internal/storage/memory"
	redisstore "notespy/internal/storage/redis"
	"notespy/internal/upstream"
	"notespy/pkg/metrics"
)

// Server is the assembled proxy server
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	store   storage.CounterStore
	limiter *ratelimit.Limiter
	policy  atomic.Pointer[cors.Policy]

	router     chi.Router
	httpServer *http.Server
}

// NewServer builds the proxy from configuration
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	registry := prometheus.NewRegistry()
	s.metrics = metrics.NewWithRegistry(registry)

	store, err := s.buildStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating counter store: %w", err)
	}
	s.store = store

	s.limiter = ratelimit.New(store, cfg.RateLimit.ToLimitConfigs(), logger)
	s.policy.Store(cors.New(cfg.CORS.ToCORSConfig()))

	httpClient := upstream.NewHTTPClient(cfg.Upstream.Transport.ToTransportConfig())
	matchClient := upstream.NewMatchClient(
		cfg.Upstream.Match.URL,
		time.Duration(cfg.Upstream.Match.Timeout)*time.Second,
		httpClient, logger, s.metrics,
	)
	catalogClient := upstream.NewCatalogClient(
		cfg.Upstream.Catalog.URL,
		time.Duration(cfg.Upstream.Catalog.Timeout)*time.Second,
		httpClient, logger, s.metrics,
	)

	h := handler.New(s.policy.Load, s.limiter, matchClient, catalogClient, logger, s.metrics)

	r := chi.NewRouter()
	r.Use(security.Middleware(security.Config{
		Development:     cfg.Server.Development(),
		ExtraConnectSrc: []string{cfg.Upstream.Match.URL, cfg.Upstream.Catalog.URL},
	}))
	r.Use(metricsmw.Middleware(s.metrics))
	r.Use(recovery.Default(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/match", h.Match)
		r.Options("/match", h.Preflight)
		r.Get("/search", h.Search)
		r.Options("/search", h.Preflight)
	})

	r.Group(func(r chi.Router) {
		r.Use(ratelimit.Middleware(s.limiter, ratelimit.ClassGeneral))
		r.Get("/healthz", s.handleHealth)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.router = r
	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	return s, nil
}

func (s *Server) buildStore(cfg *config.Config) (storage.CounterStore, error) {
	switch cfg.Storage.Type {
	case "", "memory":
		storeCfg := storage.DefaultConfig()
		if cfg.Storage.SweepInterval > 0 {
			storeCfg.SweepInterval = time.Duration(cfg.Storage.SweepInterval) * time.Second
		}
		return memory.NewStore(storeCfg), nil

	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Storage.Redis.Address,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("pinging redis: %w", err)
		}
		return redisstore.NewStore(client), nil

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Storage.Type)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Router returns the assembled handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// ApplyConfig swaps in reloadable parts of a new configuration: the
// origin policy and the per-class rate limits. Server address and
// storage changes still need a restart.
func (s *Server) ApplyConfig(cfg *config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}

	corsCfg := cfg.CORS.ToCORSConfig()
	limits := cfg.RateLimit.ToLimitConfigs()

	s.policy.Store(cors.New(corsCfg))
	s.limiter.SetConfigs(limits)

	s.logger.Info("Applied configuration",
		"origins", len(corsCfg.AllowedOrigins),
		"match_limit", limits[ratelimit.ClassMatch].MaxRequests,
	)
	return nil
}

// Start begins serving. It returns once the listener is bound; the
// server then runs until Stop is called.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}

	s.logger.Info("Server started",
		"addr", ln.Addr().String(),
		"environment", s.cfg.Server.Environment,
		"storage", s.cfg.Storage.Type,
	)

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Server failed", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts the server down and releases the store.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stopping HTTP server: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing counter store: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	s.logger.Info("Server stopped")
	return nil
}
