package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/catalog"
)

// productColumns selects product fields together with the approved-review
// rating annotation used across all catalog queries.
const productColumns = `p.id, p.name, p.slug, p.category_id, p.description, p.price,
	p.image, p.stock, p.available, p.created_at,
	COALESCE(ROUND(AVG(r.rating) FILTER (WHERE r.approved), 1), 0) AS avg_rating,
	COUNT(r.id) FILTER (WHERE r.approved) AS review_count`

const productFrom = `FROM products p
	LEFT JOIN product_reviews r ON r.product_id = p.id`

const (
	getProductByIDSQL = `SELECT ` + productColumns + ` ` + productFrom + `
		WHERE p.id = $1 GROUP BY p.id`

	getProductBySlugSQL = `SELECT ` + productColumns + ` ` + productFrom + `
		WHERE p.slug = $1 AND p.available GROUP BY p.id`

	getProductsByIDsSQL = `SELECT ` + productColumns + ` ` + productFrom + `
		WHERE p.id = ANY($1) GROUP BY p.id`

	listCategoriesSQL = `SELECT id, name, slug, description FROM categories ORDER BY name`

	upsertCategorySQL = `INSERT INTO categories (id, name, slug, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			description = EXCLUDED.description`

	upsertProductSQL = `INSERT INTO products (id, name, slug, category_id, description,
		price, image, stock, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			category_id = EXCLUDED.category_id,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			image = EXCLUDED.image,
			stock = EXCLUDED.stock,
			available = EXCLUDED.available,
			updated_at = now()`
)

var _ catalog.Repository = (*ProductRepository)(nil)

// ProductRepository implements catalog.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns available products matching params.
func (r *ProductRepository) List(ctx context.Context, params catalog.ListParams) ([]catalog.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + `
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.available`
	args := make([]any, 0, 2)

	if params.CategorySlug != "" {
		args = append(args, params.CategorySlug)
		query += fmt.Sprintf(" AND c.slug = $%d", len(args))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		query += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args))
	}

	query += " GROUP BY p.id"

	switch params.Sort {
	case catalog.SortPriceLow:
		query += " ORDER BY p.price"
	case catalog.SortPriceHigh:
		query += " ORDER BY p.price DESC"
	case catalog.SortRating:
		query += " ORDER BY avg_rating DESC"
	default:
		query += " ORDER BY p.created_at DESC"
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier, available or not.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	return r.getOne(ctx, getProductByIDSQL, id)
}

// GetBySlug returns an available product by its URL slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return r.getOne(ctx, getProductBySlugSQL, slug)
}

func (r *ProductRepository) getOne(ctx context.Context, query, arg string) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", arg, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", arg, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Categories returns all categories ordered by name.
func (r *ProductRepository) Categories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Category, error) {
		var c catalog.Category
		err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description)
		return c, err
	})
}

// UpsertCategory creates or replaces a category. Used by the seed tool.
func (r *ProductRepository) UpsertCategory(ctx context.Context, c *catalog.Category) error {
	_, err := r.pool.Exec(ctx, upsertCategorySQL, c.ID, c.Name, c.Slug, c.Description)
	if err != nil {
		return fmt.Errorf("upserting category %q: %w", c.ID, err)
	}
	return nil
}

// UpsertProduct creates or replaces a product. Used by the seed tool.
func (r *ProductRepository) UpsertProduct(ctx context.Context, p *catalog.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Slug, p.CategoryID, p.Description,
		p.Price, p.Image, p.Stock, p.Available,
	)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p           catalog.Product
		reviewCount int64
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.CategoryID, &p.Description, &p.Price,
		&p.Image, &p.Stock, &p.Available, &p.CreatedAt,
		&p.AvgRating, &reviewCount,
	)
	p.ReviewCount = int(reviewCount)
	return p, err
}
