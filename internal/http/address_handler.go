package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

// Addresses manages a verified user's shipping addresses.
type Addresses interface {
	AddAddress(ctx context.Context, phone string, addr domain.Address) error
	ListAddresses(ctx context.Context, phone string) ([]domain.Address, error)
}

type AddressHandler struct {
	users Addresses
}

func NewAddressHandler(users Addresses) *AddressHandler {
	return &AddressHandler{users: users}
}

type AddressRequestDTO struct {
	Phone     string `json:"phone"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Country   string `json:"country,omitempty"`
	IsDefault bool   `json:"is_default"`
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req AddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Phone == "" {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "phone is required")
		return
	}
	if req.Country == "" {
		req.Country = "India"
	}

	addr := domain.Address{
		ID:        uuid.NewString(),
		Line1:     req.Line1,
		Line2:     req.Line2,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	}
	if err := addr.Validate(); err != nil {
		handleDomainError(w, err)
		return
	}

	if err := h.users.AddAddress(r.Context(), req.Phone, addr); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, addr)
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "phone query parameter is required")
		return
	}

	addresses, err := h.users.ListAddresses(r.Context(), phone)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}
	respondJSON(w, http.StatusOK, addresses)
}
