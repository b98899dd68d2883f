package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

const productColumns = `
    p.id, p.category_id, p.name, p.description, p.price, p.stock_control, p.stock_quantity,
    p.auto_stock_reduction, p.is_active, p.created_at, p.updated_at,
    COALESCE(c.name, '') AS category_name`

const productFrom = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, category_id, name, description, price, stock_control, stock_quantity,
            auto_stock_reduction, is_active, created_at, updated_at
        )
        VALUES (
            :id, :category_id, :name, :description, :price, :stock_control, :stock_quantity,
            :auto_stock_reduction, :is_active, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT` + productColumns + productFrom + ` WHERE p.id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	products := []model.Product{product}
	if err := r.loadRelations(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != "" {
		conditions = append(conditions, "p.category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "p.is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(p.name ILIKE :search OR p.description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM products p"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	query := "SELECT" + productColumns + productFrom + whereClause + " ORDER BY " + orderBy(f)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, 0, err
	}
	if err := r.loadRelations(ctx, products); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

// orderBy whitelists the sortable columns.
func orderBy(f *dto.ProductFilters) string {
	column := "p.created_at"
	switch f.SortBy {
	case "name":
		column = "p.name"
	case "price":
		column = "p.price"
	}
	dir := " DESC"
	if strings.ToLower(f.SortOrder) == "asc" || (f.SortBy == "name" && f.SortOrder == "") {
		dir = " ASC"
	}
	return column + dir + ", p.id"
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET category_id = :category_id,
            name = :name,
            description = :description,
            price = :price,
            stock_control = :stock_control,
            auto_stock_reduction = :auto_stock_reduction,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

// Delete removes the product; images, groups and options go with it through
// ON DELETE CASCADE.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

// loadRelations fills images and variation groups for products with one query
// per table.
func (r *PGRepository) loadRelations(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	index := make(map[string]int, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = i
		products[i].Images = []model.ProductImage{}
		products[i].VariationGroups = []model.VariationGroup{}
	}

	var images []model.ProductImage
	if err := r.selectIn(ctx, &images,
		`SELECT `+imageColumns+` FROM product_images WHERE product_id IN (?) ORDER BY sort_order, created_at`, ids); err != nil {
		return err
	}
	for _, img := range images {
		i := index[img.ProductID]
		products[i].Images = append(products[i].Images, img)
	}

	var groups []model.VariationGroup
	if err := r.selectIn(ctx, &groups,
		`SELECT `+groupColumns+` FROM variation_groups WHERE product_id IN (?) ORDER BY sort_order, name`, ids); err != nil {
		return err
	}
	if len(groups) == 0 {
		return nil
	}

	groupIDs := make([]string, len(groups))
	for i := range groups {
		groupIDs[i] = groups[i].ID
		groups[i].Options = []model.VariationOption{}
	}

	var options []model.VariationOption
	if err := r.selectIn(ctx, &options,
		`SELECT `+optionColumns+` FROM variation_options WHERE group_id IN (?) ORDER BY sort_order, name`, groupIDs); err != nil {
		return err
	}
	byGroup := make(map[string]int, len(groups))
	for i := range groups {
		byGroup[groups[i].ID] = i
	}
	for _, opt := range options {
		g := byGroup[opt.GroupID]
		groups[g].Options = append(groups[g].Options, opt)
	}

	for _, g := range groups {
		i := index[g.ProductID]
		products[i].VariationGroups = append(products[i].VariationGroups, g)
	}
	return nil
}

func (r *PGRepository) selectIn(ctx context.Context, dest interface{}, query string, ids []string) error {
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	return r.DB.SelectContext(ctx, dest, r.DB.Rebind(q), args...)
}
