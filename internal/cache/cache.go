package cache

import (
	"context"
	"errors"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

type ProductCache interface {
	Get(ctx context.Context, key string) (*domain.Product, error)
	Set(ctx context.Context, key string, product *domain.Product) error
	Delete(ctx context.Context, keys ...string) error
}

var ErrCacheMiss = errors.New("cache miss")
