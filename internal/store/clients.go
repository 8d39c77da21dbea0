package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"petshop/m/domain"
)

const clientColumns = `id, full_name, cpf, phone, email, address, photo_url, total_spent, created_at, updated_at`

// SearchClients returns clients ordered by name, optionally filtered by a
// case-insensitive match on name, CPF or phone.
func (s *Store) SearchClients(ctx context.Context, query string) ([]domain.Client, error) {
	clients := []domain.Client{}
	sqlQuery := `SELECT ` + clientColumns + ` FROM clients`
	var args []any
	if strings.TrimSpace(query) != "" {
		like := likePattern(query)
		sqlQuery += ` WHERE LOWER(full_name) LIKE ? OR cpf LIKE ? OR phone LIKE ?`
		args = append(args, like, like, like)
	}
	sqlQuery += ` ORDER BY full_name`
	if err := s.selectRows(ctx, &clients, sqlQuery, args...); err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	var c domain.Client
	err := s.getRow(ctx, &c, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	return c, err
}

func (s *Store) CreateClient(ctx context.Context, c *domain.Client) error {
	c.ID = uuid.New()
	c.CreatedAt = s.timestamp()
	c.UpdatedAt = c.CreatedAt
	_, err := s.exec(ctx, `INSERT INTO clients (id, full_name, cpf, phone, email, address, photo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FullName, c.CPF, c.Phone, c.Email, c.Address, c.PhotoURL, c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *Store) UpdateClient(ctx context.Context, c *domain.Client) error {
	c.UpdatedAt = s.timestamp()
	return s.execOne(ctx, `UPDATE clients SET full_name = ?, cpf = ?, phone = ?, email = ?, address = ?, photo_url = ?, updated_at = ?
		WHERE id = ?`,
		c.FullName, c.CPF, c.Phone, c.Email, c.Address, c.PhotoURL, c.UpdatedAt, c.ID)
}

// DeleteClient removes the client and its pets in one transaction. A
// client with sales, or whose pets have appointments, is kept and
// domain.ErrInUse is returned.
func (s *Store) DeleteClient(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin client delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM pets WHERE client_id = ?`), id); err != nil {
		return deleteError(err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM clients WHERE id = ?`), id)
	if err != nil {
		return deleteError(err)
	}
	if err := requireOne(res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit client delete: %w", err)
	}
	return nil
}
