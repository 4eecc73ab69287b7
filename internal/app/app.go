// Package app wires configuration, storage, HTTP handlers and lifecycle.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/handler"
	"github.com/ignaciociccioli3-cmd/Backend1/pkg/health"
	"github.com/ignaciociccioli3-cmd/Backend1/pkg/httpmiddleware"
)

// Run creates all dependencies, serves HTTP until ctx is done, then drains
// and shuts down.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("backend", cfg.Storage.Backend),
	)

	repos, err := OpenRepositories(ctx, lg, cfg.Storage, m.MeterProvider(), m.TracerProvider())
	if err != nil {
		return err
	}
	defer repos.Close()

	healthSvc := health.New()
	for name, p := range repos.pingers {
		healthSvc.AddReadinessCheck(name, 5*time.Second, health.PingCheck(name, p))
	}
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           NewHTTPHandler(ctx, lg, cfg, repos, healthSvc, m.MeterProvider(), m.TracerProvider()),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		healthSvc.SetReady(false)
		if ctx.Err() != nil {
			lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
			time.Sleep(cfg.Graceful.ReadinessDelay)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		defer healthSvc.Stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	return g.Wait()
}

// NewHTTPHandler assembles the router, health endpoints and middleware chain.
func NewHTTPHandler(
	ctx context.Context,
	lg *zap.Logger,
	cfg *Config,
	repos *Repositories,
	healthSvc *health.Health,
	mp metric.MeterProvider,
	tp trace.TracerProvider,
) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/livez", healthSvc.LiveEndpoint).Methods(http.MethodGet)
	router.HandleFunc("/readyz", healthSvc.ReadyEndpoint).Methods(http.MethodGet)
	handler.New(repos.Products, repos.Carts).Register(router)

	instrumented := otelhttp.NewHandler(router, "catalog",
		otelhttp.WithMeterProvider(mp),
		otelhttp.WithTracerProvider(tp),
	)

	return httpmiddleware.Wrap(instrumented,
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Recovery(),
		httpmiddleware.LogRequests(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			Origins:          cfg.CORS.Origins,
			Headers:          []string{"Content-Type", httpmiddleware.RequestIDHeader},
			Expose:           []string{httpmiddleware.RequestIDHeader},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
	)
}
