package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/pgzip"

	"github.com/tillworks/pos-api/internal/domain/auth"
	"github.com/tillworks/pos-api/internal/repository"
)

type productJSON struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Alias          string `json:"alias"`
	Category       string `json:"category"`
	ListPriceCents int64  `json:"listPriceCents"`
	ImageURL       string `json:"imageUrl"`
}

const (
	upsertProductSQL = `INSERT INTO products (id, name, alias, category, list_price_cents, image_url, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			alias = EXCLUDED.alias,
			category = EXCLUDED.category,
			list_price_cents = EXCLUDED.list_price_cents,
			image_url = EXCLUDED.image_url,
			active = TRUE`

	bumpProductSeqSQL = `SELECT setval('products_id_seq', (SELECT COALESCE(MAX(id), 1) FROM products))`

	upsertUserSQL = `INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash`
)

func main() {
	var (
		databaseURL   string
		productsFile  string
		adminUser     string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file (.gz supported)")
	flag.StringVar(&adminUser, "admin-user", "", "operator account to create or update")
	flag.StringVar(&adminPassword, "admin-password", "", "password for the operator account (or POS_SEED_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("POS_SEED_PASSWORD")
	}
	if adminUser != "" && adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or POS_SEED_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, adminUser, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, adminUser, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if adminUser != "" {
		if err := seedAdmin(ctx, pool, adminUser, adminPassword); err != nil {
			return errors.Wrap(err, "seed admin user")
		}
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := readMaybeGzip(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		_, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.Alias, p.Category, p.ListPriceCents, p.ImageURL,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert product %d", p.ID)
		}
	}

	// Keep the sequence ahead of explicitly seeded ids.
	if _, err := pool.Exec(ctx, bumpProductSeqSQL); err != nil {
		return errors.Wrap(err, "bump product id sequence")
	}

	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, username, password string) error {
	slog.Info("upserting operator account", slog.String("username", username))

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, upsertUserSQL, username, hash); err != nil {
		return errors.Wrapf(err, "upsert user %s", username)
	}
	return nil
}

// readMaybeGzip reads a file, transparently decompressing .gz exports.
func readMaybeGzip(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer zr.Close()
		r = zr
	}
	return io.ReadAll(r)
}
