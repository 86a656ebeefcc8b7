package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/year-3-projects-cti/baskIT/internal/pricing"
	"github.com/year-3-projects-cti/baskIT/internal/recommend"
)

var ErrNotFound = errors.New("basket not found")

// MySQLCatalogRepo reads the basket catalog. The pricing engine treats
// these reads as authoritative at estimate time.
type MySQLCatalogRepo struct{ db *sql.DB }

func NewMySQLCatalogRepo(db *sql.DB) *MySQLCatalogRepo { return &MySQLCatalogRepo{db: db} }

var (
	_ pricing.CatalogReader = (*MySQLCatalogRepo)(nil)
	_ recommend.Catalog     = (*MySQLCatalogRepo)(nil)
)

func (r *MySQLCatalogRepo) BasketByID(ctx context.Context, id string) (pricing.Basket, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, slug, title, price, stock FROM baskets WHERE id=?`, id)

	var (
		b     pricing.Basket
		price string
	)
	if err := row.Scan(&b.ID, &b.Slug, &b.Title, &price, &b.Stock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.Basket{}, ErrNotFound
		}
		return pricing.Basket{}, err
	}
	var err error
	if b.Price, err = decimal.NewFromString(price); err != nil {
		return pricing.Basket{}, fmt.Errorf("price: %w", err)
	}
	return b, nil
}

// Newest returns the most recently added in-stock baskets.
func (r *MySQLCatalogRepo) Newest(ctx context.Context, limit int) ([]recommend.Candidate, error) {
	return r.candidates(ctx, `
SELECT id, slug, title FROM baskets
WHERE stock > 0 ORDER BY created_at DESC LIMIT ?`, limit)
}

// Seasonal returns in-stock baskets tagged for the given season.
func (r *MySQLCatalogRepo) Seasonal(ctx context.Context, season string, limit int) ([]recommend.Candidate, error) {
	return r.candidates(ctx, `
SELECT id, slug, title FROM baskets
WHERE stock > 0 AND season_tag=? ORDER BY created_at DESC LIMIT ?`, season, limit)
}

// Curated returns the manually pinned baskets, in pin order.
func (r *MySQLCatalogRepo) Curated(ctx context.Context, limit int) ([]recommend.Candidate, error) {
	return r.candidates(ctx, `
SELECT b.id, b.slug, b.title FROM baskets b
JOIN featured_baskets f ON f.basket_id = b.id
WHERE b.stock > 0 ORDER BY f.position LIMIT ?`, limit)
}

func (r *MySQLCatalogRepo) candidates(ctx context.Context, query string, args ...any) ([]recommend.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []recommend.Candidate
	for rows.Next() {
		var c recommend.Candidate
		if err := rows.Scan(&c.BasketID, &c.Slug, &c.Title); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DecrementStock reduces a basket's stock inside the caller's
// transaction. Used by the inventory worker only.
func DecrementStock(ctx context.Context, tx *sql.Tx, basketID string, qty int) error {
	_, err := tx.ExecContext(ctx, `
UPDATE baskets SET stock = stock - ? WHERE id=?`, qty, basketID)
	return err
}
