package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"shop-api/internal/cache"
	"shop-api/internal/config"
	"shop-api/internal/db"
	apihttp "shop-api/internal/http"
	"shop-api/internal/repository"
	"shop-api/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		// Configuración inválida: el proceso no sirve tráfico.
		log.Fatalf("config: %v", err)
	}

	tokenTTL, err := cache.ParseTTL(cfg.JWTTTL)
	if err != nil {
		log.Fatalf("config: jwt ttl: %v", err)
	}
	userCacheTTL, err := cache.ParseTTL(cfg.UserCacheTTL)
	if err != nil {
		log.Fatalf("config: user cache ttl: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if cfg.RunMigrations {
		if err := db.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatal("migrations", zap.Error(err))
		}
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	// Sin redis configurado (o inaccesible) se cae al cache en memoria.
	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using memory cache", zap.Error(err))
		} else {
			store = cache.NewRedisStore(redisClient)
		}
		cancel()
	}

	userRepo := repository.NewPgUserRepository(pool)
	categoryRepo := repository.NewPgCategoryRepository(pool)
	productRepo := repository.NewPgProductRepository(pool)
	imageRepo := repository.NewPgImageRepository(pool)
	orderRepo := repository.NewPgOrderRepository(pool)

	userCache := cache.NewUserCache(store)
	tokens := service.NewTokenService(cfg.JWTSecret, tokenTTL)
	userSvc := service.NewUserService(logger, userRepo, userCache, userCacheTTL)
	catalogSvc := service.NewCatalogService(logger, categoryRepo, productRepo, imageRepo)
	orderSvc := service.NewOrderService(logger, orderRepo, productRepo)

	authHandler := apihttp.NewAuthHandler(logger, userSvc, tokens)
	userHandler := apihttp.NewUserHandler(logger, userSvc)
	catalogHandler := apihttp.NewCatalogHandler(logger, catalogSvc)
	orderHandler := apihttp.NewOrderHandler(logger, orderSvc)

	router := apihttp.NewRouter(logger, tokens, userSvc, authHandler, userHandler, catalogHandler, orderHandler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
