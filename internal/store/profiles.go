package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"petshop/m/domain"
)

const profileColumns = `id, full_name, email, password, role, created_at, updated_at`

// CreateProfile stores a profile whose Password is already hashed. Emails
// are unique case-insensitively; a duplicate yields domain.ErrConflict.
func (s *Store) CreateProfile(ctx context.Context, p *domain.Profile) error {
	p.ID = uuid.New()
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.CreatedAt = s.timestamp()
	p.UpdatedAt = p.CreatedAt
	_, err := s.exec(ctx, `INSERT INTO profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FullName, p.Email, p.Password, p.Role, p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	var p domain.Profile
	err := s.getRow(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
	return p, err
}

func (s *Store) CountProfiles(ctx context.Context) (int64, error) {
	var n int64
	err := s.getRow(ctx, &n, `SELECT COUNT(*) FROM profiles`)
	return n, err
}

func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, hashed string) error {
	return s.execOne(ctx, `UPDATE profiles SET password = ?, updated_at = ? WHERE id = ?`, hashed, s.timestamp(), id)
}

// ListProfiles returns staff profiles ordered by name, without password
// hashes. An empty role lists everyone.
func (s *Store) ListProfiles(ctx context.Context, role string) ([]domain.Profile, error) {
	profiles := []domain.Profile{}
	query := `SELECT id, full_name, email, role, created_at, updated_at FROM profiles`
	var args []any
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, role)
	}
	query += ` ORDER BY full_name`
	if err := s.selectRows(ctx, &profiles, query, args...); err != nil {
		return nil, err
	}
	return profiles, nil
}
