package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"petshop/m/domain"
)

const appointmentColumns = `id, pet_id, service_id, employee_id, appointment_date, appointment_time, price, status, notes, created_at, updated_at`

type AppointmentFilter struct {
	Status string
	Date   string
}

// ListAppointments returns appointments in calendar order.
func (s *Store) ListAppointments(ctx context.Context, f AppointmentFilter) ([]domain.Appointment, error) {
	appointments := []domain.Appointment{}
	var (
		clauses []string
		args    []any
	)
	if f.Status != "" {
		clauses = append(clauses, `status = ?`)
		args = append(args, f.Status)
	}
	if f.Date != "" {
		clauses = append(clauses, `appointment_date = ?`)
		args = append(args, f.Date)
	}
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY appointment_date, appointment_time`
	if err := s.selectRows(ctx, &appointments, query, args...); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *Store) GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var a domain.Appointment
	err := s.getRow(ctx, &a, `SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id)
	return a, err
}

func (s *Store) checkAppointmentRefs(ctx context.Context, a *domain.Appointment) error {
	if _, err := s.GetPet(ctx, a.PetID); err != nil {
		return err
	}
	_, err := s.GetService(ctx, a.ServiceID)
	return err
}

func (s *Store) CreateAppointment(ctx context.Context, a *domain.Appointment) error {
	if err := s.checkAppointmentRefs(ctx, a); err != nil {
		return err
	}
	a.ID = uuid.New()
	a.CreatedAt = s.timestamp()
	a.UpdatedAt = a.CreatedAt
	_, err := s.exec(ctx, `INSERT INTO appointments (id, pet_id, service_id, employee_id, appointment_date, appointment_time, price, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.PetID, a.ServiceID, a.EmployeeID, a.AppointmentDate, a.AppointmentTime, a.Price, a.Status, a.Notes, a.CreatedAt, a.UpdatedAt)
	return err
}

func (s *Store) UpdateAppointment(ctx context.Context, a *domain.Appointment) error {
	if err := s.checkAppointmentRefs(ctx, a); err != nil {
		return err
	}
	a.UpdatedAt = s.timestamp()
	return s.execOne(ctx, `UPDATE appointments SET pet_id = ?, service_id = ?, employee_id = ?, appointment_date = ?, appointment_time = ?, price = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		a.PetID, a.ServiceID, a.EmployeeID, a.AppointmentDate, a.AppointmentTime, a.Price, a.Status, a.Notes, a.UpdatedAt, a.ID)
}

// SetAppointmentStatus moves an appointment through its lifecycle. A
// completed appointment stamps the pet's last visit.
func (s *Store) SetAppointmentStatus(ctx context.Context, id uuid.UUID, status string) error {
	a, err := s.GetAppointment(ctx, id)
	if err != nil {
		return err
	}
	now := s.timestamp()
	if err := s.execOne(ctx, `UPDATE appointments SET status = ?, updated_at = ? WHERE id = ?`, status, now, id); err != nil {
		return err
	}
	if status == "concluido" {
		_, err = s.exec(ctx, `UPDATE pets SET last_visit = ?, updated_at = ? WHERE id = ?`, a.AppointmentDate, now, a.PetID)
	}
	return err
}

func (s *Store) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.remove(ctx, `DELETE FROM appointments WHERE id = ?`, id)
}
