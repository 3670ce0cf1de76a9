package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	jwttoken "whoami/internal/jwt_token"
	"whoami/internal/names/events"
	"whoami/internal/names/handler"
	namesmetrics "whoami/internal/names/metrics"
	"whoami/internal/names/service"
	"whoami/internal/platform/config"
	"whoami/internal/platform/httpserver"
	"whoami/internal/platform/logger"
	httpmetrics "whoami/internal/platform/metrics"
	ratelimitmetrics "whoami/internal/ratelimit/metrics"
	ratelimit "whoami/internal/ratelimit/middleware"
	ratelimitmodels "whoami/internal/ratelimit/models"
	"whoami/internal/ratelimit/store/bucket"
	"whoami/pkg/platform/httputil"
	authmw "whoami/pkg/platform/middleware/auth"
	"whoami/pkg/platform/middleware/metadata"
	"whoami/pkg/platform/middleware/request"
	"whoami/pkg/platform/middleware/requesttime"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/names.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.IsDev())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("whoami stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	metrics := namesmetrics.New()
	svc, err := service.New(b.names, b.operators, b.aliases, b.settings,
		service.WithTx(b.tx),
		service.WithOutbox(b.outbox),
		service.WithLogger(log),
		service.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	if err := instantiate(ctx, svc, cfg, log); err != nil {
		return err
	}

	publisher, closePublisher, err := newPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	relay, err := events.NewRelay(b.outbox, b.drainTx, publisher,
		events.WithInterval(cfg.Outbox.PollInterval),
		events.WithBatchSize(cfg.Outbox.BatchSize),
		events.WithRelayLogger(log),
		events.WithRelayMetrics(metrics),
	)
	if err != nil {
		return err
	}

	limits, err := newRateLimiter(cfg.Limits, b, log)
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, "whoami")
	router := newRouter(handler.New(svc, log), jwttoken.NewJWTServiceAdapter(jwtService), limits, healthChecks(b, publisher), log)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting whoami", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return relay.Run(gctx)
	})
	if b.db != nil {
		g.Go(func() error {
			return relay.Listen(gctx, cfg.Database.URL)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("whoami stopped cleanly")
	return nil
}

// instantiate seeds the registry settings from the genesis file on first start.
func instantiate(ctx context.Context, svc *service.Service, cfg config.Server, log *slog.Logger) error {
	genesis, err := config.LoadGenesis[service.Genesis](cfg.GenesisPath)
	if err != nil {
		return err
	}
	if cfg.AdminOverride != "" {
		genesis.AdminAddress = cfg.AdminOverride
	}
	settings, err := svc.Instantiate(ctx, *genesis)
	if err != nil {
		return err
	}
	log.Info("registry ready",
		"name", settings.Name,
		"admin", settings.AdminAddress,
		"native_denom", settings.MintingFees.NativeDenom,
	)
	return nil
}

// newPublisher returns the Kafka publisher when brokers are configured and a
// logging publisher otherwise.
func newPublisher(ctx context.Context, cfg config.Server, log *slog.Logger) (events.Publisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn("KAFKA_BROKERS not set, settlement messages are only logged")
		return events.NewLogPublisher(log), func() {}, nil
	}
	kp, err := events.NewKafkaPublisher(ctx, cfg.Kafka, log)
	if err != nil {
		return nil, nil, err
	}
	return kp, kp.Close, nil
}

// newRateLimiter shares write budgets through Redis when it is configured and
// keeps them in process otherwise.
func newRateLimiter(cfg config.RateLimitConfig, b *backend, log *slog.Logger) (*ratelimit.Middleware, error) {
	limits := map[ratelimitmodels.Class]ratelimitmodels.Limit{}
	if cfg.MintsPerWindow > 0 {
		limits[ratelimitmodels.ClassMint] = ratelimitmodels.Limit{Requests: cfg.MintsPerWindow, Window: cfg.Window}
	}
	if cfg.WritesPerWindow > 0 {
		limits[ratelimitmodels.ClassWrite] = ratelimitmodels.Limit{Requests: cfg.WritesPerWindow, Window: cfg.Window}
	}
	disabled := cfg.Disabled || len(limits) == 0

	var primary ratelimit.Store = bucket.New()
	opts := []ratelimit.LimiterOption{ratelimit.WithLimiterLogger(log)}
	if b.redis != nil {
		primary = bucket.NewRedis(b.redis.Client)
		opts = append(opts, ratelimit.WithFallback(bucket.New()))
	}
	m := ratelimitmetrics.New()
	opts = append(opts, ratelimit.WithLimiterMetrics(m))

	var limiter ratelimit.RateLimiter
	if !disabled {
		l, err := ratelimit.NewLimiter(primary, limits, opts...)
		if err != nil {
			return nil, err
		}
		limiter = l
	}
	return ratelimit.New(limiter, log, ratelimit.WithDisabled(disabled), ratelimit.WithMetrics(m)), nil
}

// writeClass puts mints on their own budget.
func writeClass(r *http.Request) ratelimitmodels.Class {
	if r.Method == http.MethodPost && (r.URL.Path == "/names" || r.URL.Path == "/names/paths") {
		return ratelimitmodels.ClassMint
	}
	return ratelimitmodels.ClassWrite
}

func newRouter(h *handler.Handler, validator authmw.JWTValidator, limits *ratelimit.Middleware, health http.HandlerFunc, log *slog.Logger) http.Handler {
	httpMetrics := httpmetrics.New()

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(httpMetrics.Middleware)

	r.Get("/health", health)
	r.Handle("/metrics", promhttp.Handler())

	h.RegisterReads(r)
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(validator, log))
		r.Use(limits.LimitBy(writeClass))
		h.RegisterWrites(r)
	})
	return r
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthChecks reports each configured dependency. Any failure turns the
// response into a 503.
func healthChecks(b *backend, publisher events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := map[string]string{}
		record := func(name string, err error) {
			if err != nil {
				status = http.StatusServiceUnavailable
				checks[name] = err.Error()
				return
			}
			checks[name] = "ok"
		}
		if b.db != nil {
			record("postgres", b.db.PingContext(ctx))
		}
		if b.redis != nil {
			record("redis", b.redis.Health(ctx))
		}
		if p, ok := publisher.(pinger); ok {
			record("kafka", p.Ping(ctx))
		}
		httputil.WriteJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": checks})
	}
}
