package api

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petshop/m/domain"
	"petshop/m/internal/store"
)

// Product handlers

type productRequest struct {
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Brand         *string         `json:"brand"`
	Barcode       *string         `json:"barcode"`
	ImageURL      *string         `json:"image_url"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	StockQuantity int64           `json:"stock_quantity"`
	MinStock      int64           `json:"min_stock"`
}

func (req productRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if req.CostPrice.IsNegative() || req.SellPrice.IsNegative() {
		return "cost_price and sell_price must not be negative"
	}
	if req.StockQuantity < 0 || req.MinStock < 0 {
		return "stock_quantity and min_stock must not be negative"
	}
	return ""
}

func (req productRequest) toProduct() domain.Product {
	return domain.Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   nullIfEmpty(req.Description),
		Brand:         nullIfEmpty(req.Brand),
		Barcode:       nullIfEmpty(req.Barcode),
		ImageURL:      nullIfEmpty(req.ImageURL),
		CostPrice:     req.CostPrice,
		SellPrice:     req.SellPrice,
		StockQuantity: req.StockQuantity,
		MinStock:      req.MinStock,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := store.ProductFilter{
		Query:    r.URL.Query().Get("q"),
		LowStock: r.URL.Query().Get("low_stock") == "true",
	}
	products, err := h.store.SearchProducts(r.Context(), filter)
	if err != nil {
		h.respondFailure(w, r, err, "unable to list products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	product := req.toProduct()
	if err := h.store.CreateProduct(r.Context(), &product); err != nil {
		h.respondFailure(w, r, err, "unable to create product")
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err, "unable to load product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	product := req.toProduct()
	product.ID = id
	if err := h.store.UpdateProduct(r.Context(), &product); err != nil {
		h.respondFailure(w, r, err, "unable to update product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		h.respondFailure(w, r, err, "unable to delete product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Stock handlers

type stockRequest struct {
	MovementType string  `json:"movement_type"`
	Quantity     int64   `json:"quantity"`
	Reason       *string `json:"reason"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !domain.OneOf(req.MovementType, domain.StockMovementTypes) {
		respondError(w, http.StatusBadRequest, "movement_type must be one of "+strings.Join(domain.StockMovementTypes, ", "))
		return
	}
	if req.Quantity < 0 || (req.Quantity == 0 && req.MovementType != domain.MovementAdjust) {
		respondError(w, http.StatusBadRequest, "quantity must be greater than zero")
		return
	}

	product, err := h.store.AdjustStock(r.Context(), store.StockAdjustment{
		ProductID:    id,
		EmployeeID:   employeeIDFromContext(r),
		MovementType: req.MovementType,
		Quantity:     req.Quantity,
		Reason:       nullIfEmpty(req.Reason),
	})
	if err != nil {
		h.respondFailure(w, r, err, "unable to update stock")
		return
	}
	h.logger.Info("stock adjusted",
		zap.String("product_id", product.ID.String()),
		zap.String("movement_type", req.MovementType),
		zap.Int64("quantity", req.Quantity),
		zap.Int64("stock_quantity", product.StockQuantity),
	)
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) listStockMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	movements, err := h.store.ListStockMovements(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err, "unable to list stock movements")
		return
	}
	respondJSON(w, http.StatusOK, movements)
}
