// Seed carga un usuario admin y un catálogo de demostración.
// Uso: ADMIN_EMAIL=... ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"log"
	"os"

	"shop-api/internal/cache"
	"shop-api/internal/config"
	"shop-api/internal/db"
	"shop-api/internal/domain"
	"shop-api/internal/repository"
	"shop-api/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	categoryRepo := repository.NewPgCategoryRepository(pool)
	productRepo := repository.NewPgProductRepository(pool)
	imageRepo := repository.NewPgImageRepository(pool)

	// El seed no necesita redis: cache en memoria descartable.
	userCache := cache.NewUserCache(cache.NewMemoryStore())
	userSvc := service.NewUserService(logger, userRepo, userCache, 0)
	catalogSvc := service.NewCatalogService(logger, categoryRepo, productRepo, imageRepo)

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		logger.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	admin, err := userSvc.Upsert(ctx, service.UpsertUserInput{
		Email:    adminEmail,
		Password: adminPassword,
		Roles:    []domain.Role{domain.RoleCustomer, domain.RoleAdmin},
	})
	if err != nil {
		logger.Fatal("seed admin", zap.Error(err))
	}
	logger.Info("admin ready", zap.String("id", admin.ID), zap.String("email", admin.Email))

	demo := []struct {
		category service.CategoryInput
		products []service.ProductInput
	}{
		{
			category: service.CategoryInput{Name: "Audio", Description: "Headphones and speakers"},
			products: []service.ProductInput{
				{Name: "Wireless Headphones", PriceCents: 12999, Stock: 40},
				{Name: "Bluetooth Speaker", PriceCents: 6999, Stock: 25},
			},
		},
		{
			category: service.CategoryInput{Name: "Accessories", Description: "Cables, chargers and more"},
			products: []service.ProductInput{
				{Name: "USB-C Cable 2m", PriceCents: 999, Stock: 200},
				{Name: "65W Charger", PriceCents: 3499, Stock: 80},
			},
		},
	}

	for _, entry := range demo {
		category, err := catalogSvc.CreateCategory(ctx, entry.category)
		if err != nil {
			logger.Warn("seed category", zap.String("name", entry.category.Name), zap.Error(err))
			continue
		}
		for _, p := range entry.products {
			p.CategoryID = category.ID
			if _, err := catalogSvc.CreateProduct(ctx, p); err != nil {
				logger.Warn("seed product", zap.String("name", p.Name), zap.Error(err))
			}
		}
	}

	logger.Info("seed complete")
}
