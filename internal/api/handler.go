package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"petshop/m/domain"
	"petshop/m/internal/catalog"
	"petshop/m/internal/checkout"
	"petshop/m/internal/logging"
	"petshop/m/internal/metrics"
	"petshop/m/internal/store"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	sessions *checkout.Registry
	metrics  *metrics.Metrics
	logger   *zap.Logger
	secret   string
	origins  []string
}

// New constructs a Handler. Checkout sessions read their catalog from and
// record sales into st.
func New(st *store.Store, secret string, origins []string, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		store:    st,
		sessions: checkout.NewRegistry(catalog.NewLoader(st), st),
		metrics:  m,
		logger:   logger,
		secret:   secret,
		origins:  origins,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(h.logger))
	r.Use(h.metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/reset-password", h.resetPassword)
			protected.Post("/logout", h.logout)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Get("/profiles", h.listProfiles)

		pr.Route("/clients", func(r chi.Router) {
			r.Get("/", h.listClients)
			r.Post("/", h.createClient)
			r.Get("/{id}", h.getClient)
			r.Put("/{id}", h.updateClient)
			r.Delete("/{id}", h.deleteClient)
		})

		pr.Route("/pets", func(r chi.Router) {
			r.Get("/", h.listPets)
			r.Post("/", h.createPet)
			r.Get("/{id}", h.getPet)
			r.Put("/{id}", h.updatePet)
			r.Delete("/{id}", h.deletePet)
		})

		pr.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Get("/{id}", h.getProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
			r.Post("/{id}/stock", h.adjustStock)
			r.Get("/{id}/stock", h.listStockMovements)
		})

		pr.Route("/services", func(r chi.Router) {
			r.Get("/", h.listServices)
			r.Post("/", h.createService)
			r.Get("/{id}", h.getService)
			r.Put("/{id}", h.updateService)
			r.Delete("/{id}", h.deleteService)
		})

		pr.Route("/appointments", func(r chi.Router) {
			r.Get("/", h.listAppointments)
			r.Post("/", h.createAppointment)
			r.Get("/{id}", h.getAppointment)
			r.Put("/{id}", h.updateAppointment)
			r.Patch("/{id}/status", h.updateAppointmentStatus)
			r.Delete("/{id}", h.deleteAppointment)
		})

		pr.Route("/checkout", func(r chi.Router) {
			r.Get("/", h.checkoutView)
			r.Get("/catalog", h.checkoutCatalog)
			r.Post("/refresh", h.checkoutRefresh)
			r.Put("/client", h.checkoutSelectClient)
			r.Post("/products/{id}", h.checkoutAddProduct)
			r.Post("/services/{id}", h.checkoutAddService)
			r.Patch("/lines/{index}", h.checkoutUpdateLine)
			r.Delete("/lines/{index}", h.checkoutRemoveLine)
			r.Put("/discount", h.checkoutSetDiscount)
			r.Put("/payment-method", h.checkoutSetPaymentMethod)
			r.Post("/submit", h.checkoutSubmit)
			r.Post("/reset", h.checkoutReset)
		})

		pr.Route("/sales", func(r chi.Router) {
			r.Get("/", h.listSales)
			r.Get("/{id}", h.getSale)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helpers

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func pathIndex(r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	return index, err == nil
}

func nullIfEmpty(val *string) *string {
	if val == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondFailure maps domain and checkout errors to HTTP statuses. Anything
// unrecognised is logged and reported as 500 with message.
func (h *Handler) respondFailure(w http.ResponseWriter, r *http.Request, err error, message string) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		respondError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrInUse):
		respondError(w, http.StatusConflict, message+": "+domain.ErrInUse.Error())
	case errors.Is(err, domain.ErrOutOfStock), errors.Is(err, domain.ErrInsufficientStock):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrSubmitInProgress):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(message,
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, message)
	}
}
