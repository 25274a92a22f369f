package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/volumate/volumate/internal/domain"
)

// ErrStorage marks any local persistence failure. Callers classify with
// errors.Is and may retry the specific operation.
var ErrStorage = errors.New("storage failure")

// ProductStore persists saved products in SQLite, keyed by barcode.
type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// Upsert inserts or fully replaces the row for product.Barcode. The write
// is a single statement, so a concurrent read never observes a partial
// row.
func (s *ProductStore) Upsert(ctx context.Context, product *domain.SavedProduct) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (barcode, name, image_url, score, rating, rating_color)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(barcode) DO UPDATE SET
			name         = excluded.name,
			image_url    = excluded.image_url,
			score        = excluded.score,
			rating       = excluded.rating,
			rating_color = excluded.rating_color
	`, product.Barcode, product.Name, product.ImageURL, product.Score, product.Rating, product.RatingColor)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert product %s: %v", ErrStorage, product.Barcode, err)
	}
	return nil
}

// GetByBarcode returns the saved product for barcode, or nil if absent.
func (s *ProductStore) GetByBarcode(ctx context.Context, barcode string) (*domain.SavedProduct, error) {
	product := &domain.SavedProduct{}
	err := s.db.QueryRowContext(ctx, `
		SELECT barcode, name, image_url, score, rating, rating_color FROM products WHERE barcode = ?
	`, barcode).Scan(&product.Barcode, &product.Name, &product.ImageURL, &product.Score, &product.Rating, &product.RatingColor)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get product %s: %v", ErrStorage, barcode, err)
	}

	return product, nil
}

// GetAll returns every saved product. No ordering is guaranteed; callers
// that need an order must sort explicitly.
func (s *ProductStore) GetAll(ctx context.Context) ([]*domain.SavedProduct, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT barcode, name, image_url, score, rating, rating_color FROM products
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list products: %v", ErrStorage, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var products []*domain.SavedProduct
	for rows.Next() {
		product := &domain.SavedProduct{}
		if err := rows.Scan(&product.Barcode, &product.Name, &product.ImageURL, &product.Score, &product.Rating, &product.RatingColor); err != nil {
			return nil, fmt.Errorf("%w: failed to scan product: %v", ErrStorage, err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating products: %v", ErrStorage, err)
	}

	return products, nil
}

// DeleteByBarcode removes the row for barcode. Deleting an absent barcode
// is a no-op, not an error.
func (s *ProductStore) DeleteByBarcode(ctx context.Context, barcode string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM products WHERE barcode = ?
	`, barcode)
	if err != nil {
		return fmt.Errorf("%w: failed to delete product %s: %v", ErrStorage, barcode, err)
	}
	return nil
}
