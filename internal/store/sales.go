package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"petshop/m/domain"
)

const (
	saleColumns     = `id, client_id, employee_id, total_amount, discount_amount, final_amount, payment_method, sale_date, created_at`
	saleItemColumns = `id, sale_id, product_id, service_id, quantity, unit_price, total_price, created_at`
)

// SaleRecord is a persisted sale with its line items.
type SaleRecord struct {
	domain.Sale
	Items []domain.SaleItem `json:"items"`
}

// RecordSale writes the client's running total, the sale header, its items,
// the stock decrement of every product line and the matching stock movements
// in one transaction. A client deleted since the catalog was read fails with
// domain.ErrNotFound; a product whose stock dropped below the requested
// quantity fails with domain.ErrInsufficientStock.
func (s *Store) RecordSale(ctx context.Context, sale *domain.Sale, items []domain.SaleItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sale: %w", err)
	}
	defer tx.Rollback()

	now := s.timestamp()
	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE clients SET total_spent = COALESCE(total_spent, 0) + ?, updated_at = ? WHERE id = ?`),
		sale.FinalAmount, now, sale.ClientID)
	if err != nil {
		return fmt.Errorf("update client total: %w", err)
	}
	if err := requireOne(res); err != nil {
		return fmt.Errorf("client %s: %w", sale.ClientID, err)
	}

	sale.ID = uuid.New()
	sale.SaleDate = now
	sale.CreatedAt = now

	_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO sales (`+saleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		sale.ID, sale.ClientID, sale.EmployeeID, sale.TotalAmount, sale.DiscountAmount, sale.FinalAmount, sale.PaymentMethod, sale.SaleDate, sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", writeError(err))
	}

	for i := range items {
		item := &items[i]
		item.ID = uuid.New()
		item.SaleID = sale.ID
		item.CreatedAt = now
		_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO sale_items (`+saleItemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			item.ID, item.SaleID, item.ProductID, item.ServiceID, item.Quantity, item.UnitPrice, item.TotalPrice, item.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert sale items: %w", writeError(err))
		}
		if item.ProductID.Valid {
			if err := decrementStock(ctx, tx, item.ProductID.UUID, item.Quantity, now); err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO stock_movements (id, product_id, employee_id, movement_type, quantity, reason, reference_id, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
				uuid.New(), item.ProductID.UUID, sale.EmployeeID, domain.MovementOut, item.Quantity, "venda", sale.ID, now)
			if err != nil {
				return fmt.Errorf("insert stock movement: %w", writeError(err))
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sale: %w", err)
	}
	zap.L().Info("sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("client_id", sale.ClientID.String()),
		zap.Int("items", len(items)),
		zap.String("final_amount", sale.FinalAmount.StringFixed(2)),
	)
	return nil
}

func decrementStock(ctx context.Context, tx *sqlx.Tx, productID uuid.UUID, qty int64, now string) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE products SET stock_quantity = stock_quantity - ?, updated_at = ? WHERE id = ? AND stock_quantity >= ?`),
		qty, now, productID, qty)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: product %s has fewer than %d units", domain.ErrInsufficientStock, productID, qty)
	}
	return nil
}

type SaleFilter struct {
	StartDate string
	EndDate   string
}

// ListSales returns sales newest first with their items. Dates are
// YYYY-MM-DD and inclusive.
func (s *Store) ListSales(ctx context.Context, f SaleFilter) ([]SaleRecord, error) {
	var (
		clauses []string
		args    []any
	)
	if f.StartDate != "" {
		clauses = append(clauses, `SUBSTR(sale_date, 1, 10) >= ?`)
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		clauses = append(clauses, `SUBSTR(sale_date, 1, 10) <= ?`)
		args = append(args, f.EndDate)
	}
	query := `SELECT ` + saleColumns + ` FROM sales`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY sale_date DESC`

	var sales []domain.Sale
	if err := s.selectRows(ctx, &sales, query, args...); err != nil {
		return nil, err
	}
	return s.attachItems(ctx, sales)
}

func (s *Store) GetSale(ctx context.Context, id uuid.UUID) (SaleRecord, error) {
	var sale domain.Sale
	if err := s.getRow(ctx, &sale, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id); err != nil {
		return SaleRecord{}, err
	}
	records, err := s.attachItems(ctx, []domain.Sale{sale})
	if err != nil {
		return SaleRecord{}, err
	}
	return records[0], nil
}

func (s *Store) attachItems(ctx context.Context, sales []domain.Sale) ([]SaleRecord, error) {
	records := make([]SaleRecord, len(sales))
	if len(sales) == 0 {
		return records, nil
	}

	ids := make([]string, len(sales))
	for i, sale := range sales {
		ids[i] = sale.ID.String()
	}
	query, args, err := sqlx.In(`SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("prepare sale items query: %w", err)
	}
	var rows []domain.SaleItem
	if err := s.selectRows(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	itemsBySale := make(map[uuid.UUID][]domain.SaleItem)
	for _, row := range rows {
		itemsBySale[row.SaleID] = append(itemsBySale[row.SaleID], row)
	}

	for i, sale := range sales {
		items := itemsBySale[sale.ID]
		if items == nil {
			items = []domain.SaleItem{}
		}
		records[i] = SaleRecord{Sale: sale, Items: items}
	}
	return records, nil
}
