package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/repository"
)

// CatalogService coordina categorías, productos e imágenes.
type CatalogService struct {
	logger     *zap.Logger
	categories repository.CategoryRepository
	products   repository.ProductRepository
	images     repository.ImageRepository
}

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrInvalidCatalog   = errors.New("invalid catalog data")
)

func NewCatalogService(logger *zap.Logger, categories repository.CategoryRepository, products repository.ProductRepository, images repository.ImageRepository) *CatalogService {
	return &CatalogService{
		logger:     logger,
		categories: categories,
		products:   products,
		images:     images,
	}
}

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

func (s *CatalogService) CreateCategory(ctx context.Context, input CategoryInput) (domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Category{}, ErrInvalidCatalog
	}
	slug := normalizeSlug(input.Slug)
	if slug == "" {
		slug = normalizeSlug(name)
	}

	now := time.Now().UTC()
	category := domain.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, input CategoryInput) (domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return domain.Category{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if slug := normalizeSlug(input.Slug); slug != "" {
		category.Slug = slug
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		category.Description = desc
	}
	category.UpdatedAt = time.Now().UTC()

	if err := s.categories.Update(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	err := s.categories.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCategoryNotFound
	}
	return err
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Category{}, ErrCategoryNotFound
	}
	return category, err
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

type ProductInput struct {
	CategoryID  string
	Name        string
	Slug        string
	Description string
	PriceCents  int64
	Stock       int
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.PriceCents < 0 || input.Stock < 0 {
		return domain.Product{}, ErrInvalidCatalog
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Product{}, ErrCategoryNotFound
		}
		return domain.Product{}, err
	}

	slug := normalizeSlug(input.Slug)
	if slug == "" {
		slug = normalizeSlug(name)
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:          uuid.NewString(),
		CategoryID:  input.CategoryID,
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

type ProductUpdateInput struct {
	CategoryID  string
	Name        string
	Slug        string
	Description string
	PriceCents  *int64
	Stock       *int
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input ProductUpdateInput) (domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}

	if input.CategoryID != "" && input.CategoryID != product.CategoryID {
		if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Product{}, ErrCategoryNotFound
			}
			return domain.Product{}, err
		}
		product.CategoryID = input.CategoryID
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	if slug := normalizeSlug(input.Slug); slug != "" {
		product.Slug = slug
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		product.Description = desc
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return domain.Product{}, ErrInvalidCatalog
		}
		product.PriceCents = *input.PriceCents
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return domain.Product{}, ErrInvalidCatalog
		}
		product.Stock = *input.Stock
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Product{}, ErrProductNotFound
	}
	return product, err
}

func (s *CatalogService) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return s.products.List(ctx, categoryID)
}

type ImageInput struct {
	URL      string
	AltText  string
	Position int
}

func (s *CatalogService) AddImage(ctx context.Context, productID string, input ImageInput) (domain.ProductImage, error) {
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return domain.ProductImage{}, ErrInvalidCatalog
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ProductImage{}, ErrProductNotFound
		}
		return domain.ProductImage{}, err
	}

	img := domain.ProductImage{
		ID:        uuid.NewString(),
		ProductID: productID,
		URL:       url,
		AltText:   strings.TrimSpace(input.AltText),
		Position:  input.Position,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.images.Create(ctx, img); err != nil {
		return domain.ProductImage{}, err
	}
	return img, nil
}

func (s *CatalogService) ListImages(ctx context.Context, productID string) ([]domain.ProductImage, error) {
	return s.images.ListByProduct(ctx, productID)
}

func (s *CatalogService) RemoveImage(ctx context.Context, id string) error {
	err := s.images.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrImageNotFound
	}
	return err
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

func normalizeSlug(raw string) string {
	slug := strings.ToLower(strings.TrimSpace(raw))
	slug = slugCleaner.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
