package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"petshop/m/domain"
)

const productColumns = `id, name, description, brand, barcode, image_url, cost_price, sell_price, stock_quantity, min_stock, created_at, updated_at`

type ProductFilter struct {
	Query    string
	LowStock bool
}

// SearchProducts returns products ordered by name. Query matches name, brand or
// barcode; LowStock keeps only products at or below min_stock.
func (s *Store) SearchProducts(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	products := []domain.Product{}
	var (
		clauses []string
		args    []any
	)
	if strings.TrimSpace(f.Query) != "" {
		like := likePattern(f.Query)
		clauses = append(clauses, `(LOWER(name) LIKE ? OR LOWER(COALESCE(brand, '')) LIKE ? OR COALESCE(barcode, '') LIKE ?)`)
		args = append(args, like, like, like)
	}
	if f.LowStock {
		clauses = append(clauses, `stock_quantity <= min_stock`)
	}
	query := `SELECT ` + productColumns + ` FROM products`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY name`
	if err := s.selectRows(ctx, &products, query, args...); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	var p domain.Product
	err := s.getRow(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return p, err
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	p.ID = uuid.New()
	p.CreatedAt = s.timestamp()
	p.UpdatedAt = p.CreatedAt
	_, err := s.exec(ctx, `INSERT INTO products (id, name, description, brand, barcode, image_url, cost_price, sell_price, stock_quantity, min_stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Brand, p.Barcode, p.ImageURL, p.CostPrice, p.SellPrice, p.StockQuantity, p.MinStock, p.CreatedAt, p.UpdatedAt)
	return err
}

// UpdateProduct edits catalog fields. Stock is changed only through
// AdjustStock and sales.
func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = s.timestamp()
	return s.execOne(ctx, `UPDATE products SET name = ?, description = ?, brand = ?, barcode = ?, image_url = ?, cost_price = ?, sell_price = ?, min_stock = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Brand, p.Barcode, p.ImageURL, p.CostPrice, p.SellPrice, p.MinStock, p.UpdatedAt, p.ID)
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.remove(ctx, `DELETE FROM products WHERE id = ?`, id)
}
