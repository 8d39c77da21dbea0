package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	PetID           uuid.UUID       `db:"pet_id" json:"pet_id"`
	ServiceID       uuid.UUID       `db:"service_id" json:"service_id"`
	EmployeeID      uuid.NullUUID   `db:"employee_id" json:"employee_id"`
	AppointmentDate string          `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string          `db:"appointment_time" json:"appointment_time"`
	Price           decimal.Decimal `db:"price" json:"price"`
	Status          string          `db:"status" json:"status"`
	Notes           *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
	UpdatedAt       string          `db:"updated_at" json:"updated_at"`
}
