package http

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/upstream"
)

// PaymentGateway is the slice of the Razorpay client the payment
// routes use.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount domain.Money, receipt string, notes map[string]string) (*upstream.GatewayOrder, error)
	VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool
}

// GatewayOrders is the order-side bookkeeping for payments.
type GatewayOrders interface {
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	SetGatewayOrder(ctx context.Context, id primitive.ObjectID, gateway, gatewayOrderID string) error
}

type PaymentHandler struct {
	gateway PaymentGateway
	orders  GatewayOrders
}

func NewPaymentHandler(gateway PaymentGateway, orders GatewayOrders) *PaymentHandler {
	return &PaymentHandler{gateway: gateway, orders: orders}
}

type CreateGatewayOrderDTO struct {
	OrderID string `json:"order_id"`
}

// CreateGatewayOrder registers one of our pending orders with the
// gateway so the storefront can open the payment widget. The receipt
// travels in the gateway notes and comes back in the webhook.
func (h *PaymentHandler) CreateGatewayOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateGatewayOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	id, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "invalid order id")
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if order.Status != domain.OrderStatusPending {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "order is not awaiting payment")
		return
	}

	gatewayOrder, err := h.gateway.CreateOrder(r.Context(), order.Total, order.Receipt, map[string]string{
		"receipt": order.Receipt,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if err := h.orders.SetGatewayOrder(r.Context(), order.ID, "razorpay", gatewayOrder.ID); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, gatewayOrder)
}

type VerifyPaymentDTO struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// VerifyPayment checks the signature the storefront receives from the
// payment widget. Marking the order paid is the webhook's job; this
// endpoint only confirms authenticity to the frontend.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if !h.gateway.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		respondError(w, http.StatusBadRequest, "invalid_signature", "payment signature mismatch")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"order_id":   req.RazorpayOrderID,
		"payment_id": req.RazorpayPaymentID,
	})
}
