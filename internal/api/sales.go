package api

import (
	"net/http"
	"time"

	"petshop/m/domain"
	"petshop/m/internal/store"
)

// Sales handlers

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	filter := store.SaleFilter{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	for _, d := range []string{filter.StartDate, filter.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			respondError(w, http.StatusBadRequest, "start_date and end_date must be YYYY-MM-DD")
			return
		}
	}
	sales, err := h.store.ListSales(r.Context(), filter)
	if err != nil {
		h.respondFailure(w, r, err, "unable to list sales")
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	sale, err := h.store.GetSale(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err, "unable to load sale")
		return
	}
	respondJSON(w, http.StatusOK, sale)
}
