package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/cache"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CatalogService struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	log   *zap.Logger
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCatalogService(repo repository.ProductRepository, cache cache.ProductCache, log *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List returns one catalog page and the total count of matches.
func (s *CatalogService) List(ctx context.Context, filter domain.ProductFilter, page, pageSize int) ([]domain.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.repo.List(ctx, filter, page, pageSize)
}

// Get serves a product by id or slug through the cache. Concurrent
// misses on the same key collapse into one database read.
func (s *CatalogService) Get(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(idOrSlug, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, idOrSlug)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("product cache get failed", zap.Error(err))
		}

		product, err = s.repo.Get(ctx, idOrSlug)
		if err != nil {
			return nil, err
		}

		go func() {
			cctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(cctx, idOrSlug, product); err != nil {
				s.log.Warn("product cache set failed", zap.Error(err))
			}
		}()

		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *CatalogService) Create(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.log.Info("product created", zap.String("slug", p.Slug), zap.String("id", p.ID.Hex()))
	return nil
}

func (s *CatalogService) Update(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.invalidate(p)
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	// Fetch first so the slug cache key can be invalidated too.
	p, err := s.repo.Get(ctx, id.Hex())
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(p)
	s.log.Info("product deleted", zap.String("slug", p.Slug))
	return nil
}

// AdjustStock moves a variant's inventory through the repository's
// atomic conditional update; it never read-modifies-writes.
func (s *CatalogService) AdjustStock(ctx context.Context, id primitive.ObjectID, sku string, delta int) (*domain.Product, error) {
	if delta == 0 {
		return nil, domain.Invalidf("stock delta must be non-zero")
	}
	p, err := s.repo.AdjustStock(ctx, id, sku, delta)
	if err != nil {
		return nil, err
	}
	s.invalidate(p)
	return p, nil
}

func (s *CatalogService) invalidate(p *domain.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, p.ID.Hex(), p.Slug); err != nil {
		s.log.Warn("product cache invalidate failed", zap.Error(err))
	}
}
