// Command seed-db loads categories, products, and coupons from a JSON
// catalog file into the database, creating the schema first. Re-running
// it upserts, so it is safe against a populated database.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/domain/coupon"
	"github.com/xenking/storefront/internal/repository"
)

type catalogJSON struct {
	Categories []categoryJSON `json:"categories"`
	Products   []productJSON  `json:"products"`
	Coupons    []couponJSON   `json:"coupons"`
}

type categoryJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock"`
}

type couponJSON struct {
	Code         string           `json:"code"`
	Description  string           `json:"description"`
	DiscountType string           `json:"discount_type"`
	Value        decimal.Decimal  `json:"value"`
	MinPurchase  decimal.Decimal  `json:"min_purchase"`
	MaxDiscount  *decimal.Decimal `json:"max_discount"`
	ValidDays    int              `json:"valid_days"`
	UsageLimit   int              `json:"usage_limit"`
}

func main() {
	var (
		databaseURL string
		catalogFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}
	if bytes.HasPrefix(data, []byte{0x1f, 0x8b}) {
		gz, err := pgzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return errors.Wrap(err, "open gzip catalog")
		}
		data, err = io.ReadAll(gz)
		if err != nil {
			return errors.Wrap(err, "decompress catalog")
		}
	}

	var c catalogJSON
	if err := json.Unmarshal(data, &c); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

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

	products := repository.NewProductRepository(pool)
	coupons := repository.NewCouponRepository(pool)

	slog.Info("upserting categories", slog.Int("count", len(c.Categories)))
	for _, cat := range c.Categories {
		if err := products.UpsertCategory(ctx, &catalog.Category{
			ID:          cat.ID,
			Name:        cat.Name,
			Slug:        cat.Slug,
			Description: cat.Description,
		}); err != nil {
			return errors.Wrapf(err, "upsert category %s", cat.ID)
		}
	}

	slog.Info("upserting products", slog.Int("count", len(c.Products)))
	for _, p := range c.Products {
		if err := products.UpsertProduct(ctx, &catalog.Product{
			ID:          p.ID,
			Name:        p.Name,
			Slug:        p.Slug,
			CategoryID:  p.Category,
			Description: p.Description,
			Price:       p.Price,
			Image:       p.Image,
			Stock:       p.Stock,
			Available:   true,
		}); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}
		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	now := time.Now()
	slog.Info("upserting coupons", slog.Int("count", len(c.Coupons)))
	for _, cp := range c.Coupons {
		validDays := cp.ValidDays
		if validDays <= 0 {
			validDays = 365
		}
		if err := coupons.Upsert(ctx, &coupon.Coupon{
			Code:          cp.Code,
			Description:   cp.Description,
			DiscountType:  coupon.DiscountType(cp.DiscountType),
			DiscountValue: cp.Value,
			MinPurchase:   cp.MinPurchase,
			MaxDiscount:   cp.MaxDiscount,
			ValidFrom:     now,
			ValidTo:       now.AddDate(0, 0, validDays),
			Active:        true,
			UsageLimit:    cp.UsageLimit,
		}); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", cp.Code)
		}
		slog.Info("upserted coupon", slog.String("code", cp.Code), slog.String("description", cp.Description))
	}

	return nil
}
