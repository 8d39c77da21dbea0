package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petshop/m/domain"
	"petshop/m/internal/checkout"
)

// Checkout handlers. Every signed-in employee works on their own session;
// mutating endpoints answer with the updated session view.

func (h *Handler) checkoutSession(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	employeeID := employeeIDFromContext(r)
	if employeeID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "no employee is signed in")
		return nil, false
	}
	session, err := h.sessions.Session(r.Context(), employeeID)
	if err != nil {
		h.respondFailure(w, r, err, "unable to load catalog")
		return nil, false
	}
	return session, true
}

// respondView finishes a mutation: the error when there is one, the fresh
// view otherwise.
func (h *Handler) respondView(w http.ResponseWriter, r *http.Request, session *checkout.Session, err error, message string) {
	if err != nil {
		h.respondFailure(w, r, err, message)
		return
	}
	respondJSON(w, http.StatusOK, session.View())
}

func (h *Handler) checkoutView(w http.ResponseWriter, r *http.Request) {
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, session.View())
}

type catalogResponse struct {
	Clients  []domain.Client  `json:"clients"`
	Products []domain.Product `json:"products"`
	Services []domain.Service `json:"services"`
	LoadedAt time.Time        `json:"loaded_at"`
}

// checkoutCatalog lists what the session's cart validates against. Sold out
// products are left out of the picker.
func (h *Handler) checkoutCatalog(w http.ResponseWriter, r *http.Request) {
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	snapshot := session.Catalog()
	respondJSON(w, http.StatusOK, catalogResponse{
		Clients:  snapshot.Clients,
		Products: snapshot.Sellable(),
		Services: snapshot.Services,
		LoadedAt: snapshot.LoadedAt,
	})
}

func (h *Handler) checkoutRefresh(w http.ResponseWriter, r *http.Request) {
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	adjusted, err := session.Refresh(r.Context())
	if err != nil {
		h.respondFailure(w, r, err, "unable to refresh catalog")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"adjusted_lines": adjusted,
		"checkout":       session.View(),
	})
}

func (h *Handler) checkoutSelectClient(w http.ResponseWriter, r *http.Request) {
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	var payload struct {
		ClientID uuid.UUID `json:"client_id"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondView(w, r, session, session.SelectClient(payload.ClientID), "unable to select client")
}

func (h *Handler) checkoutAddProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	h.respondView(w, r, session, session.AddProduct(id), "unable to add product")
}

func (h *Handler) checkoutAddService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid service id")
		return
	}
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	h.respondView(w, r, session, session.AddService(id), "unable to add service")
}

type lineUpdateRequest struct {
	Quantity  *int64           `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// checkoutUpdateLine changes a line's quantity and/or unit price. Values the
// cart ignores (non-positive quantity, negative price, unknown index) leave
// the line as it was.
func (h *Handler) checkoutUpdateLine(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid line index")
		return
	}
	var req lineUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity == nil && req.UnitPrice == nil {
		respondError(w, http.StatusBadRequest, "quantity or unit_price is required")
		return
	}
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	if req.Quantity != nil {
		if err := session.UpdateQuantity(index, *req.Quantity); err != nil {
			h.respondFailure(w, r, err, "unable to update quantity")
			return
		}
	}
	var err error
	if req.UnitPrice != nil {
		err = session.UpdatePrice(index, *req.UnitPrice)
	}
	h.respondView(w, r, session, err, "unable to update price")
}

func (h *Handler) checkoutRemoveLine(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid line index")
		return
	}
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	h.respondView(w, r, session, session.RemoveLine(index), "unable to remove line")
}

func (h *Handler) checkoutSetDiscount(w http.ResponseWriter, r *http.Request) {
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	var payload struct {
		Discount decimal.Decimal `json:"discount"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondView(w, r, session, session.SetDiscount(payload.Discount), "unable to set discount")
}

func (h *Handler) checkoutSetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	var payload struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondView(w, r, session, session.SetPaymentMethod(payload.PaymentMethod), "unable to set payment method")
}

func (h *Handler) checkoutSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	employeeID := employeeIDFromContext(r)
	receipt, err := session.Submit(r.Context(), employeeID)
	outcome := checkout.Outcome(err)
	h.metrics.ObserveCheckout(outcome)
	if err != nil {
		if outcome != "validation" {
			h.logger.Warn("checkout failed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("employee_id", employeeID.String()),
				zap.String("outcome", outcome),
				zap.Error(err),
			)
		}
		if outcome == "error" {
			// Backend write failures are shown verbatim.
			respondError(w, http.StatusInternalServerError, "unable to record sale: "+err.Error())
			return
		}
		h.respondFailure(w, r, err, "unable to record sale")
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) checkoutReset(w http.ResponseWriter, r *http.Request) {
	session, ok := h.checkoutSession(w, r)
	if !ok {
		return
	}
	h.respondView(w, r, session, session.Reset(), "unable to reset checkout")
}
