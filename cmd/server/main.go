package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/audit"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/cart"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/catalog"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/config"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/money"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/pricing"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/repository"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/server"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/validation"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Cart store
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoDB.Client().Disconnect(ctx)

	carts := repository.NewMongoRepository(mongoDB)
	if err := carts.CreateIndexes(ctx); err != nil {
		logger.Fatal("Failed to create cart indexes", zap.Error(err))
	}
	logger.Info("Connected to MongoDB", zap.String("uri", cfg.Mongo.URI))

	// Catalog store
	catalogRepo, err := catalog.NewRepository(cfg.Catalog.PostgresDSN)
	if err != nil {
		logger.Fatal("Failed to connect to catalog database", zap.Error(err))
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.Catalog.MigrationsPath); err != nil {
		logger.Fatal("Failed to run catalog migrations", zap.Error(err))
	}
	logger.Info("Catalog database ready")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}
	logger.Info("Redis ping succeeded")

	cache := catalog.NewRedisCache(redisClient)
	catalogSvc := catalog.NewService(catalogRepo, cache, logger)

	calc, err := newCalculator(cfg.Rates)
	if err != nil {
		logger.Fatal("Invalid rate configuration", zap.Error(err))
	}

	aggregator := cart.NewAggregator(carts, catalogSvc, calc, logger)

	validator := validation.NewClient(cfg.Pricing.BaseURL, cfg.Pricing.Timeout, logger)

	publisher := audit.NewPublisher(cfg.Kafka.Brokers, logger)
	defer publisher.Close()

	sessions := server.NewSessionManager(validator, cfg.Pricing.Debounce, publisher, logger)
	defer sessions.Close()

	handler := server.NewCartHandler(aggregator, carts, sessions, cfg.RequestTimeout, logger)
	router := server.NewRouter(handler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Pricing service listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down pricing service...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Pricing service stopped")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newCalculator(rates config.RatesConfig) (*pricing.Calculator, error) {
	taxRate, err := money.Parse(rates.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("tax rate: %w", err)
	}
	threshold, err := money.Parse(rates.FreeShippingThreshold)
	if err != nil {
		return nil, fmt.Errorf("free shipping threshold: %w", err)
	}
	cost, err := money.Parse(rates.ShippingCost)
	if err != nil {
		return nil, fmt.Errorf("shipping cost: %w", err)
	}
	return pricing.NewCalculator(taxRate, threshold, cost, rates.CurrencySymbol), nil
}
