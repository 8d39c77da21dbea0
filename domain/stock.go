package domain

import "github.com/google/uuid"

const (
	MovementIn     = "entrada"
	MovementOut    = "saida"
	MovementAdjust = "ajuste"
)

type StockMovement struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	ProductID    uuid.UUID     `db:"product_id" json:"product_id"`
	EmployeeID   uuid.NullUUID `db:"employee_id" json:"employee_id"`
	MovementType string        `db:"movement_type" json:"movement_type"`
	Quantity     int64         `db:"quantity" json:"quantity"`
	Reason       *string       `db:"reason" json:"reason,omitempty"`
	ReferenceID  uuid.NullUUID `db:"reference_id" json:"reference_id"`
	CreatedAt    string        `db:"created_at" json:"created_at"`
}
