package repository

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

const imageColumns = `id, product_id, url, is_main, sort_order, created_at`

func (r *PGRepository) AddImage(ctx context.Context, img *model.ProductImage) error {
	query := `
        INSERT INTO product_images (id, product_id, url, is_main, sort_order, created_at)
        VALUES (:id, :product_id, :url, :is_main, :sort_order, :created_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, img)
	return err
}

func (r *PGRepository) UpdateImage(ctx context.Context, img *model.ProductImage) error {
	_, err := r.DB.NamedExecContext(ctx, `UPDATE product_images SET url = :url WHERE id = :id`, img)
	return err
}

func (r *PGRepository) DeleteImage(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM product_images WHERE id = $1`, id)
	return err
}

func (r *PGRepository) NextImageOrder(ctx context.Context, productID string) (int, error) {
	var next int
	err := r.DB.GetContext(ctx, &next,
		`SELECT COALESCE(MAX(sort_order) + 1, 0) FROM product_images WHERE product_id = $1`, productID)
	return next, err
}

// ReorderImages sets sort_order to each id's position. It reports false and
// changes nothing when an id does not belong to the product.
func (r *PGRepository) ReorderImages(ctx context.Context, productID string, ids []string) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	query := `UPDATE product_images SET sort_order = $1 WHERE id = $2 AND product_id = $3`
	for i, id := range ids {
		res, err := tx.ExecContext(ctx, query, i, id, productID)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}
	}
	return true, tx.Commit()
}

// SetMainImage flags imageID as the product's only main image.
func (r *PGRepository) SetMainImage(ctx context.Context, productID, imageID string) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE product_images SET is_main = FALSE WHERE product_id = $1 AND id <> $2`, productID, imageID); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE product_images SET is_main = TRUE WHERE id = $1 AND product_id = $2`, imageID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	return true, tx.Commit()
}
