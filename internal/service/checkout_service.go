package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/repository"
)

type CheckoutService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	log      *zap.Logger
}

func NewCheckoutService(carts repository.CartRepository, products repository.ProductRepository, orders repository.OrderRepository, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		products: products,
		orders:   orders,
		log:      log,
	}
}

type reservedLine struct {
	productID primitive.ObjectID
	sku       string
	quantity  int
}

// Checkout converts the session's cart into an immutable order.
// Each line is taken from stock with an atomic conditional decrement;
// if any line cannot be taken, the lines already taken are returned
// and no order is created. Prices and totals are frozen in the order
// snapshot at this point.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID, userID string) (*domain.Order, error) {
	cart, err := s.carts.GetCart(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && cart.IsEmpty()) {
		return nil, domain.Invalidf("cart is empty, nothing to checkout")
	}
	if err != nil {
		return nil, err
	}

	var reserved []reservedLine
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := s.products.AdjustStock(ctx, line.ProductID, line.SKU, -line.Quantity)
		if err != nil {
			s.release(reserved)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, fmt.Errorf("%w: variant %s", domain.ErrInsufficientStock, line.SKU)
			}
			return nil, err
		}
		reserved = append(reserved, reservedLine{product.ID, line.SKU, line.Quantity})

		if !product.InStock {
			s.release(reserved)
			return nil, domain.Invalidf("product %q is no longer available", product.Slug)
		}
		variant, ok := product.Variant(line.SKU)
		if !ok {
			s.release(reserved)
			return nil, domain.Invalidf("unknown variant %q", line.SKU)
		}

		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			SKU:         line.SKU,
			UnitPrice:   variant.Price,
			Quantity:    line.Quantity,
		})
	}

	subtotal, shipping, tax, total := domain.ComputeTotals(items)
	order := &domain.Order{
		Receipt:       newReceipt(),
		SessionID:     sessionID,
		UserID:        userID,
		Items:         items,
		Status:        domain.OrderStatusPending,
		Subtotal:      subtotal,
		Shipping:      shipping,
		Tax:           tax,
		Total:         total,
		PaymentStatus: domain.PaymentStatusPending,
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		s.release(reserved)
		return nil, err
	}

	if err := s.carts.DeleteCart(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		// The order stands; an undeleted cart is only cosmetic.
		s.log.Warn("failed to clear cart after checkout",
			zap.String("session_id", sessionID), zap.Error(err))
	}

	s.log.Info("checkout committed",
		zap.String("receipt", order.Receipt),
		zap.Int("lines", len(order.Items)),
		zap.String("total", order.Total.String()))
	return order, nil
}

// release returns stock taken by an aborted checkout. It runs on a
// fresh context: the request context may already be cancelled, and the
// increments must still go through.
func (s *CheckoutService) release(reserved []reservedLine) {
	if len(reserved) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, r := range reserved {
		if _, err := s.products.AdjustStock(ctx, r.productID, r.sku, r.quantity); err != nil {
			s.log.Error("failed to release reserved stock",
				zap.String("sku", r.sku), zap.Int("quantity", r.quantity), zap.Error(err))
		}
	}
}

func newReceipt() string {
	return "ORD-" + uuid.NewString()
}
