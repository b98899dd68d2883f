package repository

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

const (
	groupColumns  = `id, product_id, name, required, multiple_selection, sort_order`
	optionColumns = `id, group_id, name, price_modifier, stock, sort_order`
)

func (r *PGRepository) AddGroup(ctx context.Context, g *model.VariationGroup) error {
	query := `
        INSERT INTO variation_groups (id, product_id, name, required, multiple_selection, sort_order)
        VALUES (:id, :product_id, :name, :required, :multiple_selection, :sort_order)
    `
	_, err := r.DB.NamedExecContext(ctx, query, g)
	return err
}

func (r *PGRepository) UpdateGroup(ctx context.Context, g *model.VariationGroup) error {
	query := `
        UPDATE variation_groups
        SET name = :name,
            required = :required,
            multiple_selection = :multiple_selection,
            sort_order = :sort_order
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, g)
	return err
}

// DeleteGroup removes the group and, by cascade, its options.
func (r *PGRepository) DeleteGroup(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM variation_groups WHERE id = $1`, id)
	return err
}

func (r *PGRepository) AddOption(ctx context.Context, o *model.VariationOption) error {
	query := `
        INSERT INTO variation_options (id, group_id, name, price_modifier, stock, sort_order)
        VALUES (:id, :group_id, :name, :price_modifier, :stock, :sort_order)
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) UpdateOption(ctx context.Context, o *model.VariationOption) error {
	query := `
        UPDATE variation_options
        SET name = :name,
            price_modifier = :price_modifier,
            stock = :stock,
            sort_order = :sort_order
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) DeleteOption(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM variation_options WHERE id = $1`, id)
	return err
}
