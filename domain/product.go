package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Description   *string         `db:"description" json:"description,omitempty"`
	Brand         *string         `db:"brand" json:"brand,omitempty"`
	Barcode       *string         `db:"barcode" json:"barcode,omitempty"`
	ImageURL      *string         `db:"image_url" json:"image_url,omitempty"`
	CostPrice     decimal.Decimal `db:"cost_price" json:"cost_price"`
	SellPrice     decimal.Decimal `db:"sell_price" json:"sell_price"`
	StockQuantity int64           `db:"stock_quantity" json:"stock_quantity"`
	MinStock      int64           `db:"min_stock" json:"min_stock"`
	CreatedAt     string          `db:"created_at" json:"created_at"`
	UpdatedAt     string          `db:"updated_at" json:"updated_at"`
}

// LowStock reports whether the product is at or below its alert threshold.
func (p Product) LowStock() bool {
	return p.StockQuantity <= p.MinStock
}

type Service struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	Description     *string         `db:"description" json:"description,omitempty"`
	ServiceType     string          `db:"service_type" json:"service_type"`
	BasePrice       decimal.Decimal `db:"base_price" json:"base_price"`
	DurationMinutes *int64          `db:"duration_minutes" json:"duration_minutes,omitempty"`
	ImageURL        *string         `db:"image_url" json:"image_url,omitempty"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
}
