package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"petshop/m/domain"
)

const petColumns = `p.id, p.client_id, p.name, p.species, p.breed, p.age, p.size, p.medical_notes, p.photo_url, p.last_visit, p.created_at, p.updated_at`

type PetFilter struct {
	ClientID uuid.UUID
	Query    string
}

// ListPets returns pets newest first. Query matches pet name, breed or the
// owner's name.
func (s *Store) ListPets(ctx context.Context, f PetFilter) ([]domain.Pet, error) {
	pets := []domain.Pet{}
	var (
		clauses []string
		args    []any
	)
	if f.ClientID != uuid.Nil {
		clauses = append(clauses, `p.client_id = ?`)
		args = append(args, f.ClientID)
	}
	if strings.TrimSpace(f.Query) != "" {
		like := likePattern(f.Query)
		clauses = append(clauses, `(LOWER(p.name) LIKE ? OR LOWER(COALESCE(p.breed, '')) LIKE ? OR LOWER(c.full_name) LIKE ?)`)
		args = append(args, like, like, like)
	}
	query := `SELECT ` + petColumns + ` FROM pets p JOIN clients c ON c.id = p.client_id`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY p.created_at DESC`
	if err := s.selectRows(ctx, &pets, query, args...); err != nil {
		return nil, err
	}
	return pets, nil
}

func (s *Store) GetPet(ctx context.Context, id uuid.UUID) (domain.Pet, error) {
	var p domain.Pet
	err := s.getRow(ctx, &p, `SELECT `+petColumns+` FROM pets p WHERE p.id = ?`, id)
	return p, err
}

func (s *Store) CreatePet(ctx context.Context, p *domain.Pet) error {
	if _, err := s.GetClient(ctx, p.ClientID); err != nil {
		return err
	}
	p.ID = uuid.New()
	p.CreatedAt = s.timestamp()
	p.UpdatedAt = p.CreatedAt
	_, err := s.exec(ctx, `INSERT INTO pets (id, client_id, name, species, breed, age, size, medical_notes, photo_url, last_visit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ClientID, p.Name, p.Species, p.Breed, p.Age, p.Size, p.MedicalNotes, p.PhotoURL, p.LastVisit, p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *Store) UpdatePet(ctx context.Context, p *domain.Pet) error {
	if _, err := s.GetClient(ctx, p.ClientID); err != nil {
		return err
	}
	p.UpdatedAt = s.timestamp()
	return s.execOne(ctx, `UPDATE pets SET client_id = ?, name = ?, species = ?, breed = ?, age = ?, size = ?, medical_notes = ?, photo_url = ?, updated_at = ?
		WHERE id = ?`,
		p.ClientID, p.Name, p.Species, p.Breed, p.Age, p.Size, p.MedicalNotes, p.PhotoURL, p.UpdatedAt, p.ID)
}

func (s *Store) DeletePet(ctx context.Context, id uuid.UUID) error {
	return s.remove(ctx, `DELETE FROM pets WHERE id = ?`, id)
}
