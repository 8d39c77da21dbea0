package domain

import "github.com/google/uuid"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "funcionario"
)

type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"password,omitempty" db:"password"`
	Role      string    `json:"role" db:"role"`
	CreatedAt string    `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt string    `json:"updated_at,omitempty" db:"updated_at"`
}

// ValidRole reports whether role is one of the profile roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}
