package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-api/internal/domain"
)

// ImageRepository define el contrato de persistencia para imágenes de producto.
type ImageRepository interface {
	Create(ctx context.Context, img domain.ProductImage) error
	GetByID(ctx context.Context, id string) (domain.ProductImage, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.ProductImage, error)
	Delete(ctx context.Context, id string) error
}

// PgImageRepository implementa ImageRepository usando pgxpool.
type PgImageRepository struct {
	pool *pgxpool.Pool
}

func NewPgImageRepository(pool *pgxpool.Pool) *PgImageRepository {
	return &PgImageRepository{pool: pool}
}

func (r *PgImageRepository) Create(ctx context.Context, img domain.ProductImage) error {
	const query = `
		INSERT INTO product_images (id, product_id, url, alt_text, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, img.ID, img.ProductID, img.URL, img.AltText, img.Position, img.CreatedAt)
	return err
}

func (r *PgImageRepository) GetByID(ctx context.Context, id string) (domain.ProductImage, error) {
	const query = `
		SELECT id, product_id, url, alt_text, position, created_at
		FROM product_images WHERE id = $1
	`
	var img domain.ProductImage
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&img.ID, &img.ProductID, &img.URL, &img.AltText, &img.Position, &img.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProductImage{}, ErrNotFound
	}
	return img, err
}

func (r *PgImageRepository) ListByProduct(ctx context.Context, productID string) ([]domain.ProductImage, error) {
	const query = `
		SELECT id, product_id, url, alt_text, position, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY position, created_at
	`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProductImage
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.AltText, &img.Position, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *PgImageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM product_images WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
