// Command seed-catalog loads products from a JSON array file (optionally
// gzip-compressed) into the product collection, skipping codes that
// already exist.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/klauspost/pgzip"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain/product"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/storage/postgres"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/store"
)

func main() {
	var (
		productsFile string
		productsPath string
		databaseURL  string
	)

	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file (.json or .json.gz)")
	flag.StringVar(&productsPath, "products-path", "products.json", "product collection file to seed")
	flag.StringVar(&databaseURL, "database-url", "", "seed the postgres backend instead of a file (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, productsFile, productsPath, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, productsFile, productsPath, databaseURL string) error {
	var products store.Collection[product.Product]
	if databaseURL != "" {
		slog.Info("connecting to database")

		pool, err := postgres.NewPool(ctx, databaseURL)
		if err != nil {
			return errors.Wrap(err, "connect to database")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}
		products = postgres.NewCollection[product.Product](pool, "products")
	} else {
		products = store.NewFile[product.Product](productsPath)
	}

	r, closeFn, err := openSource(productsFile)
	if err != nil {
		return err
	}
	defer closeFn()

	created, skipped, err := seed(ctx, product.NewRepository(products), r)
	if err != nil {
		return errors.Wrap(err, "seed products")
	}
	slog.Info("products seeded", slog.Int("created", created), slog.Int("skipped", skipped))
	return nil
}

// openSource opens path, transparently decompressing .gz files.
func openSource(path string) (io.Reader, func(), error) {
	slog.Info("reading products file", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open products file")
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, func() { _ = f.Close() }, nil
	}

	zr, err := pgzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, errors.Wrap(err, "open gzip stream")
	}
	return zr, func() {
		_ = zr.Close()
		_ = f.Close()
	}, nil
}

// seed creates every product in the JSON array read from r. Products whose
// code already exists are skipped; any other error stops the run.
func seed(ctx context.Context, repo *product.Repository, r io.Reader) (created, skipped int, err error) {
	d := jx.Decode(r, 64*1024)
	if d.Next() != jx.Array {
		return 0, 0, errors.New("products file must hold a JSON array")
	}

	i := 0
	err = d.Arr(func(d *jx.Decoder) error {
		i++
		raw, err := d.Raw()
		if err != nil {
			return errors.Wrapf(err, "read product #%d", i)
		}
		in, err := product.DecodeInput(raw)
		if err != nil {
			return errors.Wrapf(err, "decode product #%d", i)
		}

		p, err := repo.Create(ctx, in)
		var conflict *domain.ConflictError
		switch {
		case errors.As(err, &conflict):
			skipped++
			slog.Info("skipped existing product", slog.String("code", conflict.Value))
			return nil
		case err != nil:
			return errors.Wrapf(err, "create product #%d", i)
		}

		created++
		slog.Info("created product", slog.Int64("id", int64(p.ID)), slog.String("code", p.Code))
		return nil
	})
	return created, skipped, err
}
