package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

// NewUserHandler crea una instancia de UserHandler.
func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
	}
}

// GetUser maneja GET /users/:id. Solo el propio usuario o un admin.
func (h *UserHandler) GetUser(c *gin.Context) {
	requester, _ := CurrentUser(c)
	targetID := c.Param("id")
	if requester.ID != targetID && !requester.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	user, err := h.userServ.Resolve(c.Request.Context(), targetID, service.ResolveOptions{})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("get user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser maneja PUT /users/:id. El cambio de roles y de blocked es
// solo para admins; el password lo puede rotar el propio usuario.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	requester, _ := CurrentUser(c)
	targetID := c.Param("id")
	if requester.ID != targetID && !requester.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req struct {
		Password string   `json:"password"`
		Roles    []string `json:"roles"`
		Blocked  *bool    `json:"blocked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if (len(req.Roles) > 0 || req.Blocked != nil) && !requester.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	target, err := h.userServ.Resolve(c.Request.Context(), targetID, service.ResolveOptions{ForceRefresh: true})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("resolve target failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		return
	}

	user, err := h.userServ.Upsert(c.Request.Context(), service.UpsertUserInput{
		Email:    target.Email,
		Password: req.Password,
		Roles:    domain.NormalizeRoles(req.Roles),
		Blocked:  req.Blocked,
	})
	if err != nil {
		h.logger.Error("update user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser maneja DELETE /users/:id; la regla dueño-o-admin vive en
// el servicio.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	requester, _ := CurrentUser(c)
	targetID := c.Param("id")

	deleted, err := h.userServ.Remove(c.Request.Context(), targetID, requester)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			h.logger.Error("delete user failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
