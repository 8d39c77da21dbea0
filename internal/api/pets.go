package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"petshop/m/domain"
	"petshop/m/internal/store"
)

// Pet handlers

type petRequest struct {
	ClientID     uuid.UUID `json:"client_id"`
	Name         string    `json:"name"`
	Species      string    `json:"species"`
	Breed        *string   `json:"breed"`
	Age          *int64    `json:"age"`
	Size         *string   `json:"size"`
	MedicalNotes *string   `json:"medical_notes"`
	PhotoURL     *string   `json:"photo_url"`
}

func (req petRequest) validate() string {
	if req.ClientID == uuid.Nil || strings.TrimSpace(req.Name) == "" {
		return "client_id and name are required"
	}
	if !domain.OneOf(req.Species, domain.PetSpecies) {
		return "species must be one of " + strings.Join(domain.PetSpecies, ", ")
	}
	if size := nullIfEmpty(req.Size); size != nil && !domain.OneOf(*size, domain.PetSizes) {
		return "size must be one of " + strings.Join(domain.PetSizes, ", ")
	}
	if req.Age != nil && *req.Age < 0 {
		return "age must not be negative"
	}
	return ""
}

func (req petRequest) toPet() domain.Pet {
	return domain.Pet{
		ClientID:     req.ClientID,
		Name:         strings.TrimSpace(req.Name),
		Species:      req.Species,
		Breed:        nullIfEmpty(req.Breed),
		Age:          req.Age,
		Size:         nullIfEmpty(req.Size),
		MedicalNotes: nullIfEmpty(req.MedicalNotes),
		PhotoURL:     nullIfEmpty(req.PhotoURL),
	}
}

func (h *Handler) listPets(w http.ResponseWriter, r *http.Request) {
	filter := store.PetFilter{Query: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("client_id"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid client_id")
			return
		}
		filter.ClientID = clientID
	}
	pets, err := h.store.ListPets(r.Context(), filter)
	if err != nil {
		h.respondFailure(w, r, err, "unable to list pets")
		return
	}
	respondJSON(w, http.StatusOK, pets)
}

func (h *Handler) createPet(w http.ResponseWriter, r *http.Request) {
	var req petRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	pet := req.toPet()
	if err := h.store.CreatePet(r.Context(), &pet); err != nil {
		h.respondFailure(w, r, err, "unable to create pet")
		return
	}
	respondJSON(w, http.StatusCreated, pet)
}

func (h *Handler) getPet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid pet id")
		return
	}
	pet, err := h.store.GetPet(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err, "unable to load pet")
		return
	}
	respondJSON(w, http.StatusOK, pet)
}

func (h *Handler) updatePet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid pet id")
		return
	}
	var req petRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	pet := req.toPet()
	pet.ID = id
	if err := h.store.UpdatePet(r.Context(), &pet); err != nil {
		h.respondFailure(w, r, err, "unable to update pet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deletePet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid pet id")
		return
	}
	if err := h.store.DeletePet(r.Context(), id); err != nil {
		h.respondFailure(w, r, err, "unable to delete pet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
