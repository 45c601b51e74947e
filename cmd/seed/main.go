package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/config"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/logging"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/repository"
)

func inr(v int64) domain.Money { return domain.MoneyFromInt(v) }

func inrPtr(v int64) *domain.Money {
	m := domain.MoneyFromInt(v)
	return &m
}

// Storefront catalog as it ships today. Running the seeder is
// idempotent per slug: existing products are left alone.
func seedProducts() []domain.Product {
	return []domain.Product{
		{
			Slug:          "a-zen-calm-blend",
			Name:          "A-ZEN Calm Blend",
			Description:   "Hand crafted with 5 sacred herbs. Ancient wisdom for modern mind. Instant tea/latte mix for calm & focused mind + radiant skin.",
			Price:         inr(249),
			OriginalPrice: inrPtr(299),
			Image:         "/api/placeholder/300/300",
			HeroImage:     "/api/placeholder/600/400",
			Category:      "Wellness Blend",
			Benefits:      []string{"Reduces anxiety", "Improves focus", "Radiant skin", "Natural ingredients"},
			InStock:       true,
			Rating:        4.8,
			Reviews:       127,
			Story:         "Ancient wisdom meets modern wellness in this carefully crafted blend.",
			Ingredients:   "Sacred herbs blend with natural adaptogens",
			BrewTempC:     80,
			BrewTimeMin:   3,
			Variants: []domain.Variant{
				{ID: 1, PackSizeG: 100, Price: inr(249), MRP: inr(299), SKU: "AZN-100", InventoryQty: 50},
			},
		},
		{
			Slug:          "earl-grey-supreme",
			Name:          "Earl Grey Supreme",
			Description:   "Premium Ceylon black tea infused with bergamot oil and cornflower petals. A classic with a luxurious twist.",
			Price:         inr(399),
			OriginalPrice: inrPtr(449),
			Image:         "/api/placeholder/300/300",
			HeroImage:     "/api/placeholder/600/400",
			Category:      "Black Tea",
			Benefits:      []string{"Rich antioxidants", "Energy boost", "Classic flavor", "Premium quality"},
			InStock:       true,
			Rating:        4.7,
			Reviews:       89,
			Story:         "A timeless classic elevated with premium Ceylon tea leaves.",
			Ingredients:   "Ceylon black tea, bergamot oil, cornflower petals",
			BrewTempC:     95,
			BrewTimeMin:   4,
			Variants: []domain.Variant{
				{ID: 2, PackSizeG: 100, Price: inr(399), MRP: inr(449), SKU: "EGS-100", InventoryQty: 30},
			},
		},
		{
			Slug:          "dragon-well-green",
			Name:          "Dragon Well Green",
			Description:   "Delicate Chinese green tea with a nutty flavor. Hand-picked from the hills of Hangzhou.",
			Price:         inr(329),
			OriginalPrice: inrPtr(379),
			Image:         "/api/placeholder/300/300",
			HeroImage:     "/api/placeholder/600/400",
			Category:      "Green Tea",
			Benefits:      []string{"High antioxidants", "Metabolism boost", "Mental clarity", "Traditional taste"},
			InStock:       true,
			Rating:        4.6,
			Reviews:       156,
			Story:         "From the legendary tea gardens of Hangzhou comes this exquisite green tea.",
			Ingredients:   "Premium Chinese green tea leaves",
			BrewTempC:     75,
			BrewTimeMin:   2,
			Variants: []domain.Variant{
				{ID: 3, PackSizeG: 100, Price: inr(329), MRP: inr(379), SKU: "DWG-100", InventoryQty: 40},
			},
		},
		{
			Slug:          "himalayan-gold",
			Name:          "Himalayan Gold",
			Description:   "High-altitude black tea from the Himalayas. Bold flavor with floral notes and golden liquor.",
			Price:         inr(459),
			OriginalPrice: inrPtr(509),
			Image:         "/api/placeholder/300/300",
			HeroImage:     "/api/placeholder/600/400",
			Category:      "Black Tea",
			Benefits:      []string{"Premium quality", "Bold flavor", "High altitude", "Floral notes"},
			InStock:       true,
			Rating:        4.9,
			Reviews:       203,
			Story:         "Grown at breathtaking altitudes, this tea captures the essence of the Himalayas.",
			Ingredients:   "High-altitude Himalayan black tea",
			BrewTempC:     95,
			BrewTimeMin:   5,
			Variants: []domain.Variant{
				{ID: 4, PackSizeG: 100, Price: inr(459), MRP: inr(509), SKU: "HG-100", InventoryQty: 25},
			},
		},
		{
			Slug:          "chamomile-dreams",
			Name:          "Chamomile Dreams",
			Description:   "Soothing herbal blend perfect for bedtime. Naturally caffeine-free with calming properties.",
			Price:         inr(279),
			OriginalPrice: inrPtr(319),
			Image:         "/api/placeholder/300/300",
			HeroImage:     "/api/placeholder/600/400",
			Category:      "Herbal Tea",
			Benefits:      []string{"Caffeine-free", "Promotes sleep", "Calming effect", "Natural herbs"},
			InStock:       true,
			Rating:        4.5,
			Reviews:       94,
			Story:         "Let the gentle embrace of chamomile guide you to peaceful dreams.",
			Ingredients:   "Organic chamomile flowers, lavender, honey granules",
			BrewTempC:     85,
			BrewTimeMin:   5,
			Variants: []domain.Variant{
				{ID: 5, PackSizeG: 100, Price: inr(279), MRP: inr(319), SKU: "CD-100", InventoryQty: 35},
			},
		},
	}
}

func main() {
	cfg := config.Load()
	logger := logging.MustNewLogger("tea-store-seed", cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer db.Client().Disconnect(context.Background())

	products := repository.NewProductRepository(db)
	carts := repository.NewCartRepository(db)
	orders := repository.NewOrderRepository(db)
	users := repository.NewUserRepository(db)
	feedback := repository.NewFeedbackRepository(db)

	for name, create := range map[string]func(context.Context) error{
		"products": products.CreateIndexes,
		"carts":    carts.CreateIndexes,
		"orders":   orders.CreateIndexes,
		"users":    users.CreateIndexes,
		"feedback": feedback.CreateIndexes,
	} {
		if err := create(ctx); err != nil {
			logger.Fatal("index creation failed", zap.String("collection", name), zap.Error(err))
		}
		logger.Info("indexes ensured", zap.String("collection", name))
	}

	seeded, skipped := 0, 0
	for _, p := range seedProducts() {
		p := p
		if _, err := products.Get(ctx, p.Slug); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			logger.Fatal("lookup failed", zap.String("slug", p.Slug), zap.Error(err))
		}
		if err := products.Create(ctx, &p); err != nil {
			logger.Fatal("seed insert failed", zap.String("slug", p.Slug), zap.Error(err))
		}
		logger.Info("seeded product", zap.String("slug", p.Slug))
		seeded++
	}

	logger.Info("seeding complete", zap.Int("seeded", seeded), zap.Int("skipped", skipped))
}
