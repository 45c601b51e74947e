package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

// WebhookVerifier authenticates raw webhook deliveries.
type WebhookVerifier interface {
	VerifyWebhookSignature(body []byte, signature string) bool
}

// PaidOrders promotes orders when the gateway confirms capture.
type PaidOrders interface {
	MarkPaidByReceipt(ctx context.Context, receipt string) (*domain.Order, error)
}

type WebhookHandler struct {
	verifier WebhookVerifier
	orders   PaidOrders
	log      *zap.Logger
}

func NewWebhookHandler(verifier WebhookVerifier, orders PaidOrders, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, orders: orders, log: log}
}

type razorpayEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				Amount  int64             `json:"amount"`
				Contact string            `json:"contact"`
				Notes   map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Razorpay handles payment gateway deliveries. The signature covers
// the raw body, so it is read before any JSON decoding. Events other
// than payment.captured are acknowledged and ignored.
func (h *WebhookHandler) Razorpay(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "unreadable body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !h.verifier.VerifyWebhookSignature(body, signature) {
		respondError(w, http.StatusBadRequest, "invalid_signature", "bad webhook signature")
		return
	}

	var event razorpayEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if event.Event == "payment.captured" {
		receipt := event.Payload.Payment.Entity.Notes["receipt"]
		if receipt == "" {
			h.log.Warn("payment.captured without receipt note")
		} else {
			order, err := h.orders.MarkPaidByReceipt(r.Context(), receipt)
			switch {
			case err == nil:
				h.log.Info("order marked paid",
					zap.String("receipt", receipt),
					zap.String("order_id", order.ID.Hex()))
			case errors.Is(err, domain.ErrValidation):
				// Duplicate delivery: the order already left pending.
				h.log.Info("ignoring repeat payment.captured", zap.String("receipt", receipt))
			default:
				h.log.Error("failed to mark order paid",
					zap.String("receipt", receipt), zap.Error(err))
				handleDomainError(w, err)
				return
			}
		}
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
