package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Client struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	FullName   string           `db:"full_name" json:"full_name"`
	CPF        string           `db:"cpf" json:"cpf"`
	Phone      string           `db:"phone" json:"phone"`
	Email      *string          `db:"email" json:"email,omitempty"`
	Address    string           `db:"address" json:"address"`
	PhotoURL   *string          `db:"photo_url" json:"photo_url,omitempty"`
	TotalSpent *decimal.Decimal `db:"total_spent" json:"total_spent,omitempty"`
	CreatedAt  string           `db:"created_at" json:"created_at"`
	UpdatedAt  string           `db:"updated_at" json:"updated_at"`
}

type Pet struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ClientID     uuid.UUID `db:"client_id" json:"client_id"`
	Name         string    `db:"name" json:"name"`
	Species      string    `db:"species" json:"species"`
	Breed        *string   `db:"breed" json:"breed,omitempty"`
	Age          *int64    `db:"age" json:"age,omitempty"`
	Size         *string   `db:"size" json:"size,omitempty"`
	MedicalNotes *string   `db:"medical_notes" json:"medical_notes,omitempty"`
	PhotoURL     *string   `db:"photo_url" json:"photo_url,omitempty"`
	LastVisit    *string   `db:"last_visit" json:"last_visit,omitempty"`
	CreatedAt    string    `db:"created_at" json:"created_at"`
	UpdatedAt    string    `db:"updated_at" json:"updated_at"`
}
