package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/repository"
)

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	log      *zap.Logger
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, log *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		log:      log,
	}
}

// Get returns the session's cart, or an empty cart when none exists
// yet. Carts only materialize in the store on first add.
func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		now := time.Now()
		return &domain.Cart{
			SessionID: sessionID,
			Items:     nil,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem validates the variant against the live catalog and merges
// into any existing line for the same SKU.
func (s *CartService) AddItem(ctx context.Context, sessionID, sku string, quantity int) (*domain.Cart, error) {
	if quantity < 1 || quantity > domain.MaxLineQuantity {
		return nil, domain.Invalidf("quantity must be between 1 and %d", domain.MaxLineQuantity)
	}

	product, err := s.products.GetByVariantSKU(ctx, sku)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalidf("unknown variant %q", sku)
		}
		return nil, err
	}
	if !product.InStock {
		return nil, domain.Invalidf("product %q is not available", product.Slug)
	}

	item := domain.CartItem{
		ProductID: product.ID,
		SKU:       sku,
		Quantity:  quantity,
	}
	if err := s.carts.AddItem(ctx, sessionID, item); err != nil {
		return nil, err
	}
	return s.carts.GetCart(ctx, sessionID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, sku string, quantity int) (*domain.Cart, error) {
	if quantity < 1 || quantity > domain.MaxLineQuantity {
		return nil, domain.Invalidf("quantity must be between 1 and %d", domain.MaxLineQuantity)
	}
	if err := s.carts.UpdateItemQuantity(ctx, sessionID, sku, quantity); err != nil {
		return nil, err
	}
	return s.carts.GetCart(ctx, sessionID)
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, sku string) (*domain.Cart, error) {
	if err := s.carts.RemoveItem(ctx, sessionID, sku); err != nil {
		return nil, err
	}
	cart, err := s.carts.GetCart(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.Get(ctx, sessionID)
	}
	return cart, err
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	err := s.carts.DeleteCart(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil // clearing a cart that never existed is fine
	}
	return err
}
