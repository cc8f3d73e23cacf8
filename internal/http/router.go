package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// El autenticador corre global: los requests anónimos pasan y cada
// grupo decide con RequireAuth / RequireRole.
func NewRouter(
	logger *zap.Logger,
	tokens *service.TokenService,
	userServ *service.UserService,
	authH *AuthHandler,
	userH *UserHandler,
	catalogH *CatalogHandler,
	orderH *OrderHandler,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 1 && corsOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")

	r.Use(
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		cors.New(corsCfg),
		jsonContentTypeMiddleware(),
		Authenticate(logger, tokens, userServ),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.GET("/me", RequireAuth(), authH.Me)

	users := r.Group("/users", RequireAuth())
	users.GET("/:id", userH.GetUser)
	users.PUT("/:id", userH.UpdateUser)
	users.DELETE("/:id", userH.DeleteUser)

	adminOnly := RequireRole(domain.RoleAdmin)

	categories := r.Group("/categories")
	categories.GET("", catalogH.ListCategories)
	categories.GET("/:id", catalogH.GetCategory)
	categories.POST("", adminOnly, catalogH.CreateCategory)
	categories.PUT("/:id", adminOnly, catalogH.UpdateCategory)
	categories.DELETE("/:id", adminOnly, catalogH.DeleteCategory)

	products := r.Group("/products")
	products.GET("", catalogH.ListProducts)
	products.GET("/:id", catalogH.GetProduct)
	products.GET("/:id/images", catalogH.ListImages)
	products.POST("", adminOnly, catalogH.CreateProduct)
	products.PUT("/:id", adminOnly, catalogH.UpdateProduct)
	products.DELETE("/:id", adminOnly, catalogH.DeleteProduct)
	products.POST("/:id/images", adminOnly, catalogH.AddImage)

	r.DELETE("/images/:id", adminOnly, catalogH.RemoveImage)

	orders := r.Group("/orders", RequireAuth())
	orders.POST("", orderH.PlaceOrder)
	orders.GET("", orderH.ListOrders)
	orders.GET("/:id", orderH.GetOrder)
	orders.PATCH("/:id/status", adminOnly, orderH.UpdateOrderStatus)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
