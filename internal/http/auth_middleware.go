package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/service"
)

const authUserKey = "auth_user"

// Authenticate es el autenticador por request. Sin header bearer el
// request sigue como anónimo y la ruta decide; con token, se verifica
// firma y expiración, se resuelve el sujeto (cache primero) y se
// rechaza si no existe o está bloqueado. El usuario resuelto queda en
// el contexto con roles normalizados.
func Authenticate(logger *zap.Logger, tokens *service.TokenService, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.Next()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := tokens.Verify(token)
		if err != nil {
			// El motivo (malformado, firma, expirado) solo se loguea;
			// hacia afuera es una única falla de autenticación.
			logger.Debug("token rejected", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		user, err := users.Resolve(c.Request.Context(), claims.UserID, service.ResolveOptions{})
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		if err != nil {
			logger.Error("identity resolve failed", zap.Error(err), zap.String("subject", claims.UserID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve identity"})
			c.Abort()
			return
		}
		if user.Blocked {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account blocked"})
			c.Abort()
			return
		}

		user.Roles = domain.NormalizeRoles(domain.RoleNames(user.Roles))
		c.Set(authUserKey, user)
		c.Next()
	}
}

// RequireAuth corta requests anónimos con 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole exige un rol: 401 si anónimo, 403 si autenticado sin el
// rol. Autenticación y autorización fallan con códigos distintos.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if !user.HasRole(role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser obtiene el usuario autenticado desde el contexto.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(authUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}
