package api

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"petshop/m/domain"
	"petshop/m/internal/store"
)

// Service handlers

type serviceRequest struct {
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	ServiceType     string          `json:"service_type"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DurationMinutes *int64          `json:"duration_minutes"`
	ImageURL        *string         `json:"image_url"`
}

func (req serviceRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if !domain.OneOf(req.ServiceType, domain.ServiceTypes) {
		return "service_type must be one of " + strings.Join(domain.ServiceTypes, ", ")
	}
	if req.BasePrice.IsNegative() {
		return "base_price must not be negative"
	}
	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		return "duration_minutes must be greater than zero"
	}
	return ""
}

func (req serviceRequest) toService() domain.Service {
	return domain.Service{
		Name:            strings.TrimSpace(req.Name),
		Description:     nullIfEmpty(req.Description),
		ServiceType:     req.ServiceType,
		BasePrice:       req.BasePrice,
		DurationMinutes: req.DurationMinutes,
		ImageURL:        nullIfEmpty(req.ImageURL),
	}
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	filter := store.ServiceFilter{
		Query: r.URL.Query().Get("q"),
		Type:  r.URL.Query().Get("type"),
	}
	if filter.Type != "" && !domain.OneOf(filter.Type, domain.ServiceTypes) {
		respondError(w, http.StatusBadRequest, "invalid service type")
		return
	}
	services, err := h.store.SearchServices(r.Context(), filter)
	if err != nil {
		h.respondFailure(w, r, err, "unable to list services")
		return
	}
	respondJSON(w, http.StatusOK, services)
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var req serviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	svc := req.toService()
	if err := h.store.CreateService(r.Context(), &svc); err != nil {
		h.respondFailure(w, r, err, "unable to create service")
		return
	}
	respondJSON(w, http.StatusCreated, svc)
}

func (h *Handler) getService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid service id")
		return
	}
	svc, err := h.store.GetService(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err, "unable to load service")
		return
	}
	respondJSON(w, http.StatusOK, svc)
}

func (h *Handler) updateService(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid service id")
		return
	}
	var req serviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	svc := req.toService()
	svc.ID = id
	if err := h.store.UpdateService(r.Context(), &svc); err != nil {
		h.respondFailure(w, r, err, "unable to update service")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteService(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid service id")
		return
	}
	if err := h.store.DeleteService(r.Context(), id); err != nil {
		h.respondFailure(w, r, err, "unable to delete service")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
