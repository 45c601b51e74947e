package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

// Auth is the phone OTP login flow.
type Auth interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*domain.User, error)
}

type AuthHandler struct {
	auth Auth
}

func NewAuthHandler(auth Auth) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type OTPRequestDTO struct {
	Phone string `json:"phone"`
}

type OTPVerifyDTO struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.auth.RequestOTP(r.Context(), req.Phone); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPVerifyDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.auth.VerifyOTP(r.Context(), req.Phone, req.Code)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"phone": user.Phone,
		"role":  user.Role,
	})
}
