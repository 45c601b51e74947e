package upstream

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

const razorpayBaseURL = "https://api.razorpay.com"

// RazorpayClient creates gateway orders and verifies Razorpay's HMAC
// signatures. Calls run behind a circuit breaker; a tripped breaker or
// a gateway failure never retries inside the request path.
type RazorpayClient struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
	breaker       *gobreaker.CircuitBreaker[[]byte]
	log           *zap.Logger
}

func NewRazorpayClient(keyID, keySecret, webhookSecret string, log *zap.Logger) *RazorpayClient {
	return &RazorpayClient{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		baseURL:       razorpayBaseURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		breaker:       newBreaker("razorpay"),
		log:           log,
	}
}

// SetBaseURL points the client at a test double.
func (c *RazorpayClient) SetBaseURL(url string) { c.baseURL = url }

type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder registers a payment order with the gateway. Amounts are
// sent in paise with capture enabled, matching the storefront flow.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount domain.Money, receipt string, notes map[string]string) (*GatewayOrder, error) {
	payload, err := json.Marshal(map[string]any{
		"amount":          amount.Paise(),
		"currency":        "INR",
		"receipt":         receipt,
		"notes":           notes,
		"payment_capture": 1,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal gateway order: %w", err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(c.keyID, c.keySecret)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, data)
		}
		return data, nil
	})
	if err != nil {
		if IsUnavailable(err) {
			return nil, err
		}
		return nil, &domain.UpstreamError{Service: "razorpay", Err: err}
	}

	var order GatewayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, &domain.UpstreamError{Service: "razorpay", Err: fmt.Errorf("decode order: %w", err)}
	}
	c.log.Info("gateway order created",
		zap.String("gateway_order_id", order.ID), zap.String("receipt", receipt))
	return &order, nil
}

// VerifyPaymentSignature checks the signature Razorpay hands the
// storefront after a successful payment: HMAC-SHA256 of
// "<order_id>|<payment_id>" under the key secret.
func (c *RazorpayClient) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	expected := hmacHex(c.keySecret, []byte(gatewayOrderID+"|"+paymentID))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the X-Razorpay-Signature of a webhook
// delivery: HMAC-SHA256 of the raw body under the webhook secret.
func (c *RazorpayClient) VerifyWebhookSignature(body []byte, signature string) bool {
	expected := hmacHex(c.webhookSecret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func hmacHex(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
