package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/repository"
)

// OrderService advances orders through their lifecycle. Status moves
// only along the transition table; orders are never deleted.
type OrderService struct {
	orders repository.OrderRepository
	log    *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, log: log}
}

func (s *OrderService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *OrderService) ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	return s.orders.ListBySession(ctx, sessionID)
}

func (s *OrderService) SetGatewayOrder(ctx context.Context, id primitive.ObjectID, gateway, gatewayOrderID string) error {
	return s.orders.SetGatewayOrder(ctx, id, gateway, gatewayOrderID)
}

// Advance moves an order to the next status if the transition is legal.
func (s *OrderService) Advance(ctx context.Context, id primitive.ObjectID, next domain.OrderStatus) error {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(next) {
		return domain.Invalidf("cannot move order from %s to %s", order.Status, next)
	}

	payment := domain.PaymentStatus("")
	switch next {
	case domain.OrderStatusPaid:
		payment = domain.PaymentStatusPaid
	case domain.OrderStatusRefunded:
		payment = domain.PaymentStatusFailed
	}

	if err := s.orders.UpdateStatus(ctx, id, order.Status, next, payment); err != nil {
		return err
	}
	s.log.Info("order status advanced",
		zap.String("order_id", id.Hex()),
		zap.String("from", order.Status.String()),
		zap.String("to", next.String()))
	return nil
}

// MarkPaidByReceipt is the payment webhook's entry point: it promotes
// a pending order to paid. A repeat delivery of the same event finds
// the order already paid and is reported as a validation error.
func (s *OrderService) MarkPaidByReceipt(ctx context.Context, receipt string) (*domain.Order, error) {
	order, err := s.orders.GetByReceipt(ctx, receipt)
	if err != nil {
		return nil, err
	}
	if err := s.Advance(ctx, order.ID, domain.OrderStatusPaid); err != nil {
		return nil, err
	}
	return s.orders.Get(ctx, order.ID)
}
