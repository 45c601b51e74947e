package service

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/cache"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

type mockProductRepo struct {
	mu       sync.Mutex
	products []*domain.Product
	err      error

	adjustCalls []adjustCall
}

type adjustCall struct {
	sku   string
	delta int
}

func (m *mockProductRepo) clone(p *domain.Product) *domain.Product {
	cp := *p
	cp.Variants = append([]domain.Variant(nil), p.Variants...)
	return &cp
}

func (m *mockProductRepo) List(_ context.Context, filter domain.ProductFilter, page, pageSize int) ([]domain.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	var matched []domain.Product
	for _, p := range m.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.InStock != nil && p.InStock != *filter.InStock {
			continue
		}
		matched = append(matched, *m.clone(p))
	}
	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []domain.Product{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *mockProductRepo) Get(_ context.Context, idOrSlug string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.ID.Hex() == idOrSlug || p.Slug == idOrSlug {
			return m.clone(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockProductRepo) GetByVariantSKU(_ context.Context, sku string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if _, ok := p.Variant(sku); ok {
			return m.clone(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockProductRepo) ListByCategory(_ context.Context, category string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.products {
		if p.Category == category {
			out = append(out, *m.clone(p))
		}
	}
	return out, nil
}

func (m *mockProductRepo) Create(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.products = append(m.products, m.clone(p))
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, existing := range m.products {
		if existing.ID == p.ID {
			m.products[i] = m.clone(p)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// AdjustStock mirrors the conditional update: the decrement only lands
// when the variant holds enough stock.
func (m *mockProductRepo) AdjustStock(_ context.Context, id primitive.ObjectID, sku string, delta int) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.adjustCalls = append(m.adjustCalls, adjustCall{sku: sku, delta: delta})
	for _, p := range m.products {
		if p.ID != id {
			continue
		}
		v, ok := p.Variant(sku)
		if !ok {
			return nil, domain.ErrNotFound
		}
		if v.InventoryQty+delta < 0 {
			return nil, domain.ErrInsufficientStock
		}
		v.InventoryQty += delta
		return m.clone(p), nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockProductRepo) CreateIndexes(context.Context) error { return nil }

func (m *mockProductRepo) inventory(sku string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if v, ok := p.Variant(sku); ok {
			return v.InventoryQty
		}
	}
	return -1
}

type mockCartRepo struct {
	mu   sync.Mutex
	cart *domain.Cart
	err  error

	deleteCalls int
}

func (m *mockCartRepo) GetCart(_ context.Context, sessionID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil || m.cart.SessionID != sessionID {
		return nil, domain.ErrNotFound
	}
	cp := *m.cart
	cp.Items = append([]domain.CartItem(nil), m.cart.Items...)
	return &cp, nil
}

func (m *mockCartRepo) AddItem(_ context.Context, sessionID string, item domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		m.cart = &domain.Cart{SessionID: sessionID}
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].SKU == item.SKU {
			m.cart.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	m.cart.Items = append(m.cart.Items, item)
	return nil
}

func (m *mockCartRepo) UpdateItemQuantity(_ context.Context, _ string, sku string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return domain.ErrNotFound
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].SKU == sku {
			m.cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockCartRepo) RemoveItem(_ context.Context, _ string, sku string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return domain.ErrNotFound
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].SKU == sku {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockCartRepo) DeleteCart(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return domain.ErrNotFound
	}
	m.cart = nil
	return nil
}

func (m *mockCartRepo) CreateIndexes(context.Context) error { return nil }

type mockOrderRepo struct {
	mu        sync.Mutex
	orders    []*domain.Order
	insertErr error
}

func (m *mockOrderRepo) Insert(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	cp := *order
	m.orders = append(m.orders, &cp)
	return nil
}

func (m *mockOrderRepo) Get(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockOrderRepo) GetByReceipt(_ context.Context, receipt string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.Receipt == receipt {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockOrderRepo) ListBySession(_ context.Context, sessionID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.SessionID == sessionID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to domain.OrderStatus, payment domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID != id {
			continue
		}
		if o.Status != from {
			return domain.Invalidf("order is no longer %s", from)
		}
		o.Status = to
		if payment != "" {
			o.PaymentStatus = payment
		}
		return nil
	}
	return domain.ErrNotFound
}

func (m *mockOrderRepo) SetGatewayOrder(_ context.Context, id primitive.ObjectID, gateway, gatewayOrderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			o.PaymentGateway = gateway
			o.GatewayOrderID = gatewayOrderID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockOrderRepo) CreateIndexes(context.Context) error { return nil }

type mockProductCache struct {
	mu       sync.Mutex
	entries  map[string]*domain.Product
	getCalls int
	err      error
}

func newMockProductCache() *mockProductCache {
	return &mockProductCache{entries: map[string]*domain.Product{}}
}

func (m *mockProductCache) Get(_ context.Context, key string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.entries[key]; ok {
		return p, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *mockProductCache) Set(_ context.Context, key string, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries[key] = product
	return nil
}

func (m *mockProductCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *mockProductCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

var errDatabase = errors.New("database error")
