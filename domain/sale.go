package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Sale struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	ClientID       uuid.UUID       `db:"client_id" json:"client_id"`
	EmployeeID     uuid.UUID       `db:"employee_id" json:"employee_id"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	FinalAmount    decimal.Decimal `db:"final_amount" json:"final_amount"`
	PaymentMethod  string          `db:"payment_method" json:"payment_method"`
	SaleDate       string          `db:"sale_date" json:"sale_date"`
	CreatedAt      string          `db:"created_at" json:"created_at"`
}

// SaleItem references exactly one of ProductID or ServiceID.
type SaleItem struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	SaleID     uuid.UUID       `db:"sale_id" json:"sale_id"`
	ProductID  uuid.NullUUID   `db:"product_id" json:"product_id"`
	ServiceID  uuid.NullUUID   `db:"service_id" json:"service_id"`
	Quantity   int64           `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice decimal.Decimal `db:"total_price" json:"total_price"`
	CreatedAt  string          `db:"created_at" json:"created_at"`
}
