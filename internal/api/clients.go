package api

import (
	"net/http"
	"strings"

	"petshop/m/domain"
)

// Client handlers

type clientRequest struct {
	FullName string  `json:"full_name"`
	CPF      string  `json:"cpf"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email"`
	Address  string  `json:"address"`
	PhotoURL *string `json:"photo_url"`
}

func (req clientRequest) validate() string {
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.CPF) == "" || strings.TrimSpace(req.Phone) == "" {
		return "full_name, cpf and phone are required"
	}
	if strings.TrimSpace(req.Address) == "" {
		return "address is required"
	}
	return ""
}

func (req clientRequest) toClient() domain.Client {
	return domain.Client{
		FullName: strings.TrimSpace(req.FullName),
		CPF:      strings.TrimSpace(req.CPF),
		Phone:    strings.TrimSpace(req.Phone),
		Email:    nullIfEmpty(req.Email),
		Address:  strings.TrimSpace(req.Address),
		PhotoURL: nullIfEmpty(req.PhotoURL),
	}
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.store.SearchClients(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondFailure(w, r, err, "unable to list clients")
		return
	}
	respondJSON(w, http.StatusOK, clients)
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	client := req.toClient()
	if err := h.store.CreateClient(r.Context(), &client); err != nil {
		h.respondFailure(w, r, err, "unable to create client")
		return
	}
	respondJSON(w, http.StatusCreated, client)
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid client id")
		return
	}
	client, err := h.store.GetClient(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err, "unable to load client")
		return
	}
	respondJSON(w, http.StatusOK, client)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid client id")
		return
	}
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	client := req.toClient()
	client.ID = id
	if err := h.store.UpdateClient(r.Context(), &client); err != nil {
		h.respondFailure(w, r, err, "unable to update client")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid client id")
		return
	}
	if err := h.store.DeleteClient(r.Context(), id); err != nil {
		h.respondFailure(w, r, err, "unable to delete client")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
