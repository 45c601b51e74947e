package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/cache"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/upstream"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleDomainError translates the service error taxonomy into HTTP
// status codes and a structured error body.
func handleDomainError(w http.ResponseWriter, err error) {
	var upstreamErr *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, cache.ErrOTPThrottled):
		respondError(w, http.StatusTooManyRequests, "otp_throttled", "please wait before requesting another OTP")
	case upstream.IsUnavailable(err):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "upstream provider is temporarily unavailable")
	case errors.As(err, &upstreamErr):
		respondError(w, http.StatusBadGateway, "upstream_error", upstreamErr.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
