package handlers

import (
	"net/http"

	"udaan_backend/internal/apperrors"
	"udaan_backend/internal/middleware"
	"udaan_backend/internal/models"
	"udaan_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.GetCurrentUser)
		users.GET("", middleware.RequireRoles(models.UserRoleAdmin), h.ListUsers)
		users.GET("/:id", middleware.RequireRoles(models.UserRoleAdmin), h.GetUser)
	}
}

// GetCurrentUser godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		apperrors.HandleError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users, optionally filtered by role
// @Tags users
// @Produce json
// @Param role query string false "Role filter (admin, cameraman, editor)"
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var roleFilter *models.UserRole
	if raw := c.Query("role"); raw != "" {
		role := models.UserRole(raw)
		if !models.ValidUserRole(role) {
			apperrors.HandleError(c, apperrors.ErrInvalidUserRole)
			return
		}
		roleFilter = &role
	}

	users, err := h.userService.ListUsers(roleFilter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
