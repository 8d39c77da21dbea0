package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"petshop/m/domain"
	"petshop/m/internal/store"
)

// Appointment handlers

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type appointmentRequest struct {
	PetID           uuid.UUID        `json:"pet_id"`
	ServiceID       uuid.UUID        `json:"service_id"`
	EmployeeID      *uuid.UUID       `json:"employee_id"`
	AppointmentDate string           `json:"appointment_date"`
	AppointmentTime string           `json:"appointment_time"`
	Price           *decimal.Decimal `json:"price"`
	Status          string           `json:"status"`
	Notes           *string          `json:"notes"`
}

func (req *appointmentRequest) validate() string {
	if req.PetID == uuid.Nil || req.ServiceID == uuid.Nil {
		return "pet_id and service_id are required"
	}
	if _, err := time.Parse(dateLayout, req.AppointmentDate); err != nil {
		return "appointment_date must be YYYY-MM-DD"
	}
	if _, err := time.Parse(timeLayout, req.AppointmentTime); err != nil {
		return "appointment_time must be HH:MM"
	}
	if req.Status == "" {
		req.Status = "agendado"
	}
	if !domain.OneOf(req.Status, domain.AppointmentStatus) {
		return "status must be one of " + strings.Join(domain.AppointmentStatus, ", ")
	}
	if req.Price != nil && req.Price.IsNegative() {
		return "price must not be negative"
	}
	return ""
}

// toAppointment builds the row, pricing it at the service's base price when
// no price was given and booking it to the caller when no employee was.
func (h *Handler) toAppointment(r *http.Request, req appointmentRequest) (domain.Appointment, error) {
	a := domain.Appointment{
		PetID:           req.PetID,
		ServiceID:       req.ServiceID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Status:          req.Status,
		Notes:           nullIfEmpty(req.Notes),
	}
	if req.EmployeeID != nil {
		a.EmployeeID = uuid.NullUUID{UUID: *req.EmployeeID, Valid: true}
	} else if id := employeeIDFromContext(r); id != uuid.Nil {
		a.EmployeeID = uuid.NullUUID{UUID: id, Valid: true}
	}
	if req.Price != nil {
		a.Price = *req.Price
		return a, nil
	}
	svc, err := h.store.GetService(r.Context(), req.ServiceID)
	if err != nil {
		return domain.Appointment{}, err
	}
	a.Price = svc.BasePrice
	return a, nil
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	filter := store.AppointmentFilter{
		Status: r.URL.Query().Get("status"),
		Date:   r.URL.Query().Get("date"),
	}
	if filter.Status != "" && !domain.OneOf(filter.Status, domain.AppointmentStatus) {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if filter.Date != "" {
		if _, err := time.Parse(dateLayout, filter.Date); err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}
	appointments, err := h.store.ListAppointments(r.Context(), filter)
	if err != nil {
		h.respondFailure(w, r, err, "unable to list appointments")
		return
	}
	respondJSON(w, http.StatusOK, appointments)
}

func (h *Handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	appointment, err := h.toAppointment(r, req)
	if err != nil {
		h.respondFailure(w, r, err, "unable to create appointment")
		return
	}
	if err := h.store.CreateAppointment(r.Context(), &appointment); err != nil {
		h.respondFailure(w, r, err, "unable to create appointment")
		return
	}
	respondJSON(w, http.StatusCreated, appointment)
}

func (h *Handler) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	appointment, err := h.store.GetAppointment(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err, "unable to load appointment")
		return
	}
	respondJSON(w, http.StatusOK, appointment)
}

func (h *Handler) updateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	var req appointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	appointment, err := h.toAppointment(r, req)
	if err != nil {
		h.respondFailure(w, r, err, "unable to update appointment")
		return
	}
	appointment.ID = id
	if err := h.store.UpdateAppointment(r.Context(), &appointment); err != nil {
		h.respondFailure(w, r, err, "unable to update appointment")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !domain.OneOf(payload.Status, domain.AppointmentStatus) {
		respondError(w, http.StatusBadRequest, "status must be one of "+strings.Join(domain.AppointmentStatus, ", "))
		return
	}
	if err := h.store.SetAppointmentStatus(r.Context(), id, payload.Status); err != nil {
		h.respondFailure(w, r, err, "unable to update appointment status")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": payload.Status})
}

func (h *Handler) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	if err := h.store.DeleteAppointment(r.Context(), id); err != nil {
		h.respondFailure(w, r, err, "unable to delete appointment")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
