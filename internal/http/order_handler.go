package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

// Checkout commits a cart into an order.
type Checkout interface {
	Checkout(ctx context.Context, sessionID, userID string) (*domain.Order, error)
}

// Orders reads and advances existing orders.
type Orders interface {
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error)
	Advance(ctx context.Context, id primitive.ObjectID, next domain.OrderStatus) error
}

type OrderHandler struct {
	checkout Checkout
	orders   Orders
}

func NewOrderHandler(checkout Checkout, orders Orders) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

type CheckoutRequestDTO struct {
	UserID string `json:"user_id,omitempty"`
}

// Create runs checkout for the session's cart. The cart is destroyed
// on success; a 409 means some line lost the race for stock and
// nothing was committed.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	order, err := h.checkout.Checkout(r.Context(), sessionID(r.Context()), req.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid order id")
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if order.SessionID != sessionID(r.Context()) {
		respondError(w, http.StatusForbidden, "forbidden", "order belongs to another session")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListBySession(r.Context(), sessionID(r.Context()))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

type AdvanceStatusRequestDTO struct {
	Status domain.OrderStatus `json:"status"`
}

// AdvanceStatus is the admin fulfillment endpoint: paid→fulfilled→
// delivered, plus cancel/refund where the transition table allows.
func (h *OrderHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid order id")
		return
	}

	var req AdvanceStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "status is required")
		return
	}

	if err := h.orders.Advance(r.Context(), id, req.Status); err != nil {
		handleDomainError(w, err)
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
