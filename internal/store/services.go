package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"petshop/m/domain"
)

const serviceColumns = `id, name, description, service_type, base_price, duration_minutes, image_url, created_at`

type ServiceFilter struct {
	Query string
	Type  string
}

func (s *Store) SearchServices(ctx context.Context, f ServiceFilter) ([]domain.Service, error) {
	services := []domain.Service{}
	var (
		clauses []string
		args    []any
	)
	if strings.TrimSpace(f.Query) != "" {
		like := likePattern(f.Query)
		clauses = append(clauses, `(LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)`)
		args = append(args, like, like)
	}
	if f.Type != "" {
		clauses = append(clauses, `service_type = ?`)
		args = append(args, f.Type)
	}
	query := `SELECT ` + serviceColumns + ` FROM services`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY name`
	if err := s.selectRows(ctx, &services, query, args...); err != nil {
		return nil, err
	}
	return services, nil
}

func (s *Store) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	var svc domain.Service
	err := s.getRow(ctx, &svc, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	return svc, err
}

func (s *Store) CreateService(ctx context.Context, svc *domain.Service) error {
	svc.ID = uuid.New()
	svc.CreatedAt = s.timestamp()
	_, err := s.exec(ctx, `INSERT INTO services (id, name, description, service_type, base_price, duration_minutes, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		svc.ID, svc.Name, svc.Description, svc.ServiceType, svc.BasePrice, svc.DurationMinutes, svc.ImageURL, svc.CreatedAt)
	return err
}

func (s *Store) UpdateService(ctx context.Context, svc *domain.Service) error {
	return s.execOne(ctx, `UPDATE services SET name = ?, description = ?, service_type = ?, base_price = ?, duration_minutes = ?, image_url = ?
		WHERE id = ?`,
		svc.Name, svc.Description, svc.ServiceType, svc.BasePrice, svc.DurationMinutes, svc.ImageURL, svc.ID)
}

func (s *Store) DeleteService(ctx context.Context, id uuid.UUID) error {
	return s.remove(ctx, `DELETE FROM services WHERE id = ?`, id)
}
