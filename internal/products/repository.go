package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shoplane/catalog/internal/platform/httpx"
)

// Repository is the persistence contract for products. The handle is passed
// in explicitly; there is no package-level database state.
type Repository interface {
	All(ctx context.Context) ([]Product, error)
	Find(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id int64) error
	FindByName(ctx context.Context, name string) ([]Product, error)
	FindByCategory(ctx context.Context, category Category) ([]Product, error)
	FindByAvailability(ctx context.Context, available bool) ([]Product, error)
	FindByPrice(ctx context.Context, price decimal.Decimal) ([]Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns a Repository backed by the given pool.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// Prices travel as text so they never pass through a float.
const productColumns = `id, name, description, price::text, available, category`

func (r *repository) All(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *repository) Find(ctx context.Context, id int64) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: product with id '%d' was not found", httpx.ErrNotFound, id)
	}
	return product, err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	query := `INSERT INTO products (name, description, price, available, category)
VALUES ($1, $2, $3::numeric, $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		product.Name, product.Description, product.Price.String(), product.Available, product.Category.String(),
	).Scan(&product.ID)
	if err != nil {
		return Product{}, translateConstraint(err)
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, product Product) error {
	query := `UPDATE products SET name = $1, description = $2, price = $3::numeric, available = $4, category = $5
WHERE id = $6`
	tag, err := r.db.Exec(ctx, query,
		product.Name, product.Description, product.Price.String(), product.Available, product.Category.String(),
		product.ID,
	)
	if err != nil {
		return translateConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product with id '%d' was not found", httpx.ErrNotFound, product.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *repository) FindByName(ctx context.Context, name string) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE name = $1 ORDER BY id`, name)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *repository) FindByCategory(ctx context.Context, category Category) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY id`, category.String())
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *repository) FindByAvailability(ctx context.Context, available bool) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE available = $1 ORDER BY id`, available)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *repository) FindByPrice(ctx context.Context, price decimal.Decimal) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE price = $1::numeric ORDER BY id`, price.String())
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	items := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, product)
	}
	return items, rows.Err()
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		product  Product
		price    string
		category string
	)
	if err := row.Scan(&product.ID, &product.Name, &product.Description, &price, &product.Available, &category); err != nil {
		return Product{}, err
	}
	parsedPrice, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("scan price: %w", err)
	}
	parsedCategory, err := ParseCategory(category)
	if err != nil {
		return Product{}, fmt.Errorf("scan category: %w", err)
	}
	product.Price = parsedPrice
	product.Category = parsedCategory
	return product, nil
}

// translateConstraint maps check-constraint violations to validation errors
// so the HTTP layer reports 400 instead of 500.
func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		return fmt.Errorf("%w: %s", httpx.ErrValidation, pgErr.ConstraintName)
	}
	return err
}
