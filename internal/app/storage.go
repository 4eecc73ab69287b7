package app

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain/cart"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain/product"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/storage/postgres"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/store"
	"github.com/ignaciociccioli3-cmd/Backend1/pkg/health"
)

// Repositories are the process-wide repositories. Each collection must have
// exactly one repository so its mutex serializes every write.
type Repositories struct {
	Products *product.Repository
	Carts    *cart.Repository

	// pingers back the readiness probes, keyed by check name.
	pingers map[string]health.Pinger
	close   func()
}

// Close releases backend resources.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// OpenRepositories opens the configured backend and builds instrumented
// repositories over it.
func OpenRepositories(ctx context.Context, lg *zap.Logger, cfg StorageConfig, mp metric.MeterProvider, tp trace.TracerProvider) (*Repositories, error) {
	var (
		products store.Collection[product.Product]
		carts    store.Collection[cart.Cart]
		repos    = &Repositories{pingers: map[string]health.Pinger{}}
	)

	switch cfg.Backend {
	case BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "create db pool")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "run migrations")
		}
		products = postgres.NewCollection[product.Product](pool, "products")
		carts = postgres.NewCollection[cart.Cart](pool, "carts")
		repos.pingers["postgres"] = pool
		repos.close = pool.Close
		lg.Info("Using postgres collections")
	default:
		pf := store.NewFile[product.Product](cfg.ProductsPath)
		cf := store.NewFile[cart.Cart](cfg.CartsPath)
		products, carts = pf, cf
		repos.pingers["products_file"] = pf
		repos.pingers["carts_file"] = cf
		lg.Info("Using file collections",
			zap.String("products", cfg.ProductsPath),
			zap.String("carts", cfg.CartsPath),
		)
	}

	ip, err := store.Instrument(products, "products", mp, tp)
	if err != nil {
		repos.Close()
		return nil, errors.Wrap(err, "instrument products")
	}
	ic, err := store.Instrument(carts, "carts", mp, tp)
	if err != nil {
		repos.Close()
		return nil, errors.Wrap(err, "instrument carts")
	}

	// Touch both collections so missing files or rows exist before the first
	// request and unreadable ones fail startup.
	if _, err := ip.Load(ctx); err != nil {
		repos.Close()
		return nil, errors.Wrap(err, "load products")
	}
	if _, err := ic.Load(ctx); err != nil {
		repos.Close()
		return nil, errors.Wrap(err, "load carts")
	}

	repos.Products = product.NewRepository(ip)
	repos.Carts = cart.NewRepository(ic)
	return repos, nil
}
