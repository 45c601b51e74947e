package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/metrics"
)

// Production storefront origins; development gets a wildcard.
var allowedOrigins = []string{
	"https://innerveda.netlify.app",
	"https://innerveda.in",
	"https://www.innerveda.in",
	"http://localhost:3000",
	"http://localhost:3001",
}

type RouterOptions struct {
	Environment     string
	AdminAPIKey     string
	CommerceEnabled bool
	RequestTimeout  time.Duration
}

type Handlers struct {
	Products  *ProductHandler
	Feedback  *FeedbackHandler
	Carts     *CartHandler
	Orders    *OrderHandler
	Auth      *AuthHandler
	Addresses *AddressHandler
	Payments  *PaymentHandler
	Webhooks  *WebhookHandler
	AI        *AIHandler
}

// NewRouter wires the full API surface. The commerce routes exist in
// the binary either way; the flag only decides whether they mount,
// which is how the storefront runs while the storage migration is
// still in flight.
func NewRouter(opts RouterOptions, h Handlers, m *metrics.ServerMetrics) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(m.Middleware)

	origins := allowedOrigins
	if opts.Environment == "development" {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "Inner Veda Tea Store API is running",
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "Inner Veda Tea Store API",
		})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.Products.List)
		r.Get("/category/{category}", h.Products.ListByCategory)
		r.Get("/{idOrSlug}", h.Products.Get)
	})

	// Feedback submission is public; triage stays behind the admin key.
	r.Route("/api/feedback", func(r chi.Router) {
		r.Post("/", h.Feedback.Create)

		r.Group(func(r chi.Router) {
			r.Use(AdminGuard(opts.AdminAPIKey))
			r.Get("/", h.Feedback.List)
			r.Get("/{id}", h.Feedback.Get)
			r.Put("/{id}/status", h.Feedback.UpdateStatus)
			r.Delete("/{id}", h.Feedback.Delete)
		})
	})

	r.Post("/ai/chat", h.AI.Chat)

	if opts.CommerceEnabled {
		mountCommerce(r, opts, h)
	}

	return r
}

func mountCommerce(r chi.Router, opts RouterOptions, h Handlers) {
	r.Route("/auth/otp", func(r chi.Router) {
		r.Post("/request", h.Auth.RequestOTP)
		r.Post("/verify", h.Auth.VerifyOTP)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(RequireSession)
		r.Get("/", h.Carts.Get)
		r.Delete("/", h.Carts.Clear)
		r.Post("/items", h.Carts.AddItem)
		r.Put("/items/{sku}", h.Carts.UpdateQuantity)
		r.Delete("/items/{sku}", h.Carts.RemoveItem)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(RequireSession)
		r.Post("/", h.Orders.Create)
		r.Get("/", h.Orders.List)
		r.Get("/{id}", h.Orders.Get)
	})

	r.Route("/addresses", func(r chi.Router) {
		r.Post("/", h.Addresses.Create)
		r.Get("/", h.Addresses.List)
	})

	r.Route("/payments/razorpay", func(r chi.Router) {
		r.Post("/order", h.Payments.CreateGatewayOrder)
		r.Post("/verify", h.Payments.VerifyPayment)
	})

	r.Post("/webhooks/razorpay", h.Webhooks.Razorpay)

	r.Route("/admin", func(r chi.Router) {
		r.Use(AdminGuard(opts.AdminAPIKey))
		r.Post("/products", h.Products.Create)
		r.Put("/products/{id}", h.Products.Update)
		r.Delete("/products/{id}", h.Products.Delete)
		r.Post("/products/{id}/stock", h.Products.AdjustStock)
		r.Post("/orders/{id}/status", h.Orders.AdvanceStatus)
	})
}
