package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

// Carts is what the cart routes need from the cart service.
type Carts interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID, sku string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, sku string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, sku string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type CartHandler struct {
	carts Carts
}

func NewCartHandler(carts Carts) *CartHandler {
	return &CartHandler{carts: carts}
}

type AddItemRequestDTO struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Get(r.Context(), sessionID(r.Context()))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.SKU == "" {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "sku is required")
		return
	}

	cart, err := h.carts.AddItem(r.Context(), sessionID(r.Context()), req.SKU, req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), sessionID(r.Context()), chi.URLParam(r, "sku"), req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.RemoveItem(r.Context(), sessionID(r.Context()), chi.URLParam(r, "sku"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), sessionID(r.Context())); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}
