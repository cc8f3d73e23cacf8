package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-api/internal/service"
)

// CatalogHandler mantiene dependencias para endpoints del catálogo.
type CatalogHandler struct {
	logger  *zap.Logger
	catalog *service.CatalogService
}

// NewCatalogHandler crea una instancia de CatalogHandler.
func NewCatalogHandler(logger *zap.Logger, catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		logger:  logger,
		catalog: catalog,
	}
}

// ListCategories maneja GET /categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("list categories failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory maneja GET /categories/:id.
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.catalog.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		h.logger.Error("get category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// CreateCategory maneja POST /categories (admin).
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), service.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCatalog) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		h.logger.Error("create category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory maneja PUT /categories/:id (admin).
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), c.Param("id"), service.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		h.logger.Error("update category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory maneja DELETE /categories/:id (admin).
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		h.logger.Error("delete category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete category"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListProducts maneja GET /products?category_id=.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context(), c.Query("category_id"))
	if err != nil {
		h.logger.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct maneja GET /products/:id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error("get product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct maneja POST /products (admin).
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req struct {
		CategoryID  string `json:"category_id" binding:"required"`
		Name        string `json:"name" binding:"required"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		PriceCents  int64  `json:"price_cents" binding:"min=0"`
		Stock       int    `json:"stock" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), service.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		case errors.Is(err, service.ErrInvalidCatalog):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product"})
		default:
			h.logger.Error("create product failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create product"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct maneja PUT /products/:id (admin).
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req struct {
		CategoryID  string `json:"category_id"`
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		PriceCents  *int64 `json:"price_cents"`
		Stock       *int   `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), service.ProductUpdateInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		case errors.Is(err, service.ErrInvalidCatalog):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product"})
		default:
			h.logger.Error("update product failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update product"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct maneja DELETE /products/:id (admin).
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error("delete product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete product"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListImages maneja GET /products/:id/images.
func (h *CatalogHandler) ListImages(c *gin.Context) {
	images, err := h.catalog.ListImages(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("list images failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list images"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// AddImage maneja POST /products/:id/images (admin).
func (h *CatalogHandler) AddImage(c *gin.Context) {
	var req struct {
		URL      string `json:"url" binding:"required,url"`
		AltText  string `json:"alt_text"`
		Position int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	img, err := h.catalog.AddImage(c.Request.Context(), c.Param("id"), service.ImageInput{
		URL:      req.URL,
		AltText:  req.AltText,
		Position: req.Position,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, service.ErrInvalidCatalog):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
		default:
			h.logger.Error("add image failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add image"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": img})
}

// RemoveImage maneja DELETE /images/:id (admin).
func (h *CatalogHandler) RemoveImage(c *gin.Context) {
	if err := h.catalog.RemoveImage(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		h.logger.Error("remove image failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove image"})
		return
	}
	c.Status(http.StatusNoContent)
}
