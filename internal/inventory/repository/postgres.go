package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const stockColumns = `id, name, stock_control, stock_quantity, auto_stock_reduction, updated_at`

const movementColumns = `id, product_id, movement_type, quantity_change, quantity_before, quantity_after,
	reference_type, reference_id, notes, created_by, created_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetStock(ctx context.Context, productID string) (*model.StockLevel, error) {
	var level model.StockLevel
	query := `SELECT ` + stockColumns + ` FROM products WHERE id = $1`
	if err := r.DB.GetContext(ctx, &level, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &level, nil
}

// FindAll lists stock-controlled products, lowest stock first.
func (r *PGRepository) FindAll(ctx context.Context, f *dto.StockFilters) ([]model.StockLevel, int, error) {
	conditions := []string{"stock_control = TRUE"}
	args := map[string]interface{}{}

	if f.LowStock != nil {
		conditions = append(conditions, "stock_quantity <= :low_stock")
		args["low_stock"] = *f.LowStock
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	count, err := r.count(ctx, "SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT " + stockColumns + " FROM products" + whereClause + " ORDER BY stock_quantity ASC, name ASC" + limit(f.Page, f.PageSize)
	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	items := []model.StockLevel{}
	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	count, err := r.count(ctx, "SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT " + movementColumns + " FROM stock_movements" + whereClause + " ORDER BY created_at DESC" + limit(f.Page, f.PageSize)
	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	items := []model.StockMovement{}
	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) HasMovement(ctx context.Context, productID, referenceType, referenceID string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `
        SELECT EXISTS (
            SELECT 1 FROM stock_movements
            WHERE product_id = $1 AND reference_type = $2 AND reference_id = $3
        )`, productID, referenceType, referenceID)
	return exists, err
}

func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, level *model.StockLevel, movement *model.StockMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET stock_quantity = $1, updated_at = $2 WHERE id = $3`,
		level.StockQuantity, level.UpdatedAt, level.ProductID)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	insertLogQuery := `
        INSERT INTO stock_movements (
            id, product_id, movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :product_id, :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	if _, err = tx.NamedExecContext(ctx, insertLogQuery, movement); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) count(ctx context.Context, query string, args map[string]interface{}) (int, error) {
	rows, err := r.DB.NamedQueryContext(ctx, query, args)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}

func limit(page, pageSize int) string {
	if pageSize <= 0 {
		return ""
	}
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
}
