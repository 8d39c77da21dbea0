package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"petshop/m/domain"
)

type StockAdjustment struct {
	ProductID    uuid.UUID
	EmployeeID   uuid.UUID
	MovementType string
	Quantity     int64
	Reason       *string
}

// AdjustStock applies a manual stock movement. "entrada" adds Quantity,
// "saida" removes it and "ajuste" sets the level to Quantity.
func (s *Store) AdjustStock(ctx context.Context, adj StockAdjustment) (domain.Product, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("begin stock adjustment: %w", err)
	}
	defer tx.Rollback()

	var p domain.Product
	err = tx.GetContext(ctx, &p, tx.Rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`), adj.ProductID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}

	level := p.StockQuantity
	switch adj.MovementType {
	case domain.MovementIn:
		level += adj.Quantity
	case domain.MovementOut:
		if adj.Quantity > level {
			return domain.Product{}, fmt.Errorf("%w: only %d units of %s in stock", domain.ErrInsufficientStock, level, p.Name)
		}
		level -= adj.Quantity
	case domain.MovementAdjust:
		level = adj.Quantity
	default:
		return domain.Product{}, fmt.Errorf("unknown movement type %q", adj.MovementType)
	}

	now := s.timestamp()
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE products SET stock_quantity = ?, updated_at = ? WHERE id = ?`), level, now, p.ID); err != nil {
		return domain.Product{}, fmt.Errorf("update stock: %w", err)
	}
	employee := uuid.NullUUID{UUID: adj.EmployeeID, Valid: adj.EmployeeID != uuid.Nil}
	_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO stock_movements (id, product_id, employee_id, movement_type, quantity, reason, reference_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL, ?)`),
		uuid.New(), p.ID, employee, adj.MovementType, adj.Quantity, adj.Reason, now)
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert stock movement: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Product{}, fmt.Errorf("commit stock adjustment: %w", err)
	}

	p.StockQuantity = level
	p.UpdatedAt = now
	return p, nil
}

func (s *Store) ListStockMovements(ctx context.Context, productID uuid.UUID) ([]domain.StockMovement, error) {
	movements := []domain.StockMovement{}
	err := s.selectRows(ctx, &movements, `SELECT id, product_id, employee_id, movement_type, quantity, reason, reference_id, created_at
		FROM stock_movements WHERE product_id = ? ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	return movements, nil
}
