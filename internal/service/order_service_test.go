package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

func pendingOrder(repo *mockOrderRepo) *domain.Order {
	order := &domain.Order{
		Receipt:       "ORD-test-receipt",
		SessionID:     "sess-1",
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		Total:         domain.MoneyFromInt(941),
	}
	_ = repo.Insert(context.Background(), order)
	return order
}

func TestOrderAdvance_LegalTransition(t *testing.T) {
	repo := &mockOrderRepo{}
	order := pendingOrder(repo)
	sut := NewOrderService(repo, zap.NewNop())

	require.NoError(t, sut.Advance(context.Background(), order.ID, domain.OrderStatusPaid))

	got, err := sut.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, got.Status)
	assert.Equal(t, domain.PaymentStatusPaid, got.PaymentStatus)
}

func TestOrderAdvance_IllegalTransition(t *testing.T) {
	repo := &mockOrderRepo{}
	order := pendingOrder(repo)
	sut := NewOrderService(repo, zap.NewNop())

	err := sut.Advance(context.Background(), order.ID, domain.OrderStatusDelivered)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, _ := sut.Get(context.Background(), order.ID)
	assert.Equal(t, domain.OrderStatusPending, got.Status, "rejected transition must not move the order")
}

func TestOrderAdvance_UnknownOrder(t *testing.T) {
	sut := NewOrderService(&mockOrderRepo{}, zap.NewNop())
	err := sut.Advance(context.Background(), primitive.NewObjectID(), domain.OrderStatusPaid)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkPaidByReceipt(t *testing.T) {
	repo := &mockOrderRepo{}
	order := pendingOrder(repo)
	sut := NewOrderService(repo, zap.NewNop())

	paid, err := sut.MarkPaidByReceipt(context.Background(), order.Receipt)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, paid.Status)

	// A second delivery of the same payment event finds the order
	// already paid and is rejected, not double-applied.
	_, err = sut.MarkPaidByReceipt(context.Background(), order.Receipt)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMarkPaidByReceipt_UnknownReceipt(t *testing.T) {
	sut := NewOrderService(&mockOrderRepo{}, zap.NewNop())
	_, err := sut.MarkPaidByReceipt(context.Background(), "ORD-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetGatewayOrder(t *testing.T) {
	repo := &mockOrderRepo{}
	order := pendingOrder(repo)
	sut := NewOrderService(repo, zap.NewNop())

	require.NoError(t, sut.SetGatewayOrder(context.Background(), order.ID, "razorpay", "order_gw_123"))

	got, err := sut.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "razorpay", got.PaymentGateway)
	assert.Equal(t, "order_gw_123", got.GatewayOrderID)
}
