package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/cache"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/config"
	apihttp "github.com/chakravartyharish/TeaWebsite-Backend/internal/http"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/logging"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/metrics"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/repository"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/service"
	"github.com/chakravartyharish/TeaWebsite-Backend/internal/upstream"
)

func main() {
	cfg := config.Load()
	logger := logging.MustNewLogger("tea-store-api", cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDB))

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("invalid REDIS_URL", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	logger.Info("connected to Redis")

	products := repository.NewProductRepository(mongoDB)
	carts := repository.NewCartRepository(mongoDB)
	orders := repository.NewOrderRepository(mongoDB)
	users := repository.NewUserRepository(mongoDB)
	feedback := repository.NewFeedbackRepository(mongoDB)

	productCache := cache.NewRedisCache(redisClient)
	otpStore := cache.NewOTPStore(redisClient)

	catalogSvc := service.NewCatalogService(products, productCache, logger)
	cartSvc := service.NewCartService(carts, products, logger)
	checkoutSvc := service.NewCheckoutService(carts, products, orders, logger)
	orderSvc := service.NewOrderService(orders, logger)
	authSvc := service.NewAuthService(otpStore, users, logger)

	razorpay := upstream.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret, logger)
	chatClient := upstream.NewChatClient(cfg.AIAPIKey, cfg.AIBaseURL, logger)

	serverMetrics := metrics.NewServerMetrics("api")

	handlers := apihttp.Handlers{
		Products:  apihttp.NewProductHandler(catalogSvc),
		Feedback:  apihttp.NewFeedbackHandler(feedback),
		Carts:     apihttp.NewCartHandler(cartSvc),
		Orders:    apihttp.NewOrderHandler(checkoutSvc, orderSvc),
		Auth:      apihttp.NewAuthHandler(authSvc),
		Addresses: apihttp.NewAddressHandler(users),
		Payments:  apihttp.NewPaymentHandler(razorpay, orderSvc),
		Webhooks:  apihttp.NewWebhookHandler(razorpay, orderSvc, logger),
		AI:        apihttp.NewAIHandler(chatClient),
	}

	router := apihttp.NewRouter(apihttp.RouterOptions{
		Environment:     cfg.Environment,
		AdminAPIKey:     cfg.AdminAPIKey,
		CommerceEnabled: cfg.CommerceRoutesEnabled,
		RequestTimeout:  cfg.RequestTimeout,
	}, handlers, serverMetrics)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      http.MaxBytesHandler(router, cfg.MaxRequestBodySize),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("tea store API starting",
			zap.String("port", cfg.HTTPPort),
			zap.Bool("commerce_routes", cfg.CommerceRoutesEnabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		logger.Error("mongo disconnect failed", zap.Error(err))
	}
	logger.Info("server exited")
}
