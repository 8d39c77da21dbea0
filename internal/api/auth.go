package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"petshop/m/domain"
)

type ctxKey string

const (
	ctxEmployeeID ctxKey = "employeeID"
	ctxRole       ctxKey = "role"
)

// Authentication helpers

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(profileID uuid.UUID, role string) (string, error) {
	claims := authClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

// parseBearer validates the Authorization header and returns the signed-in
// profile id and role.
func (h *Handler) parseBearer(r *http.Request) (uuid.UUID, string, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return uuid.Nil, "", errors.New("missing bearer token")
	}
	tokenString := strings.TrimSpace(header[len("Bearer "):])
	token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(h.secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(*authClaims)
	if !ok {
		return uuid.Nil, "", errors.New("invalid token claims")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", errors.New("invalid token subject")
	}
	return id, claims.Role, nil
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, role, err := h.parseBearer(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), ctxEmployeeID, id)
		ctx = context.WithValue(ctx, ctxRole, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	role, _ := r.Context().Value(ctxRole).(string)
	if role == "" {
		respondError(w, http.StatusUnauthorized, "missing role")
		return false
	}
	for _, allowedRole := range allowed {
		if role == allowedRole {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

// employeeIDFromContext is the identity sales are recorded under.
func employeeIDFromContext(r *http.Request) uuid.UUID {
	if id, ok := r.Context().Value(ctxEmployeeID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// Auth Handlers

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token   string         `json:"token"`
	Profile domain.Profile `json:"profile"`
}

// register creates a profile. The first profile bootstraps the shop as its
// admin; after that only an admin may register further profiles.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "full_name, email and password are required")
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleEmployee
	}
	if !domain.ValidRole(req.Role) {
		respondError(w, http.StatusBadRequest, "role must be admin or funcionario")
		return
	}

	count, err := h.store.CountProfiles(r.Context())
	if err != nil {
		h.respondFailure(w, r, err, "unable to start registration")
		return
	}
	if count == 0 {
		req.Role = domain.RoleAdmin
	} else {
		_, role, err := h.parseBearer(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if role != domain.RoleAdmin {
			respondError(w, http.StatusForbidden, "only an admin can register profiles")
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	profile := domain.Profile{FullName: req.FullName, Email: req.Email, Password: string(hashed), Role: req.Role}
	if err := h.store.CreateProfile(r.Context(), &profile); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			respondError(w, http.StatusConflict, "email already exists")
			return
		}
		h.respondFailure(w, r, err, "unable to complete registration")
		return
	}

	token, err := h.generateToken(profile.ID, profile.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	profile.Password = ""
	respondJSON(w, http.StatusCreated, authResponse{Token: token, Profile: profile})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.store.GetProfileByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.generateToken(profile.ID, profile.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	profile.Password = ""
	respondJSON(w, http.StatusOK, authResponse{Token: token, Profile: profile})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "new_password is required")
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	employeeID := employeeIDFromContext(r)
	if err := h.store.UpdatePassword(r.Context(), employeeID, string(hashed)); err != nil {
		h.respondFailure(w, r, err, "unable to update password")
		return
	}
	h.sessions.Discard(employeeID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// logout drops the caller's checkout session. Tokens are stateless and
// simply expire.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Discard(employeeIDFromContext(r))
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	role := r.URL.Query().Get("role")
	if role != "" && !domain.ValidRole(role) {
		respondError(w, http.StatusBadRequest, "role must be admin or funcionario")
		return
	}
	profiles, err := h.store.ListProfiles(r.Context(), role)
	if err != nil {
		h.respondFailure(w, r, err, "unable to list profiles")
		return
	}
	respondJSON(w, http.StatusOK, profiles)
}
