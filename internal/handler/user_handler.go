package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"

	"github.com/yourusername/indcric-api/internal/handler/dto"
	"github.com/yourusername/indcric-api/internal/middleware"
	"github.com/yourusername/indcric-api/internal/service"
	"github.com/yourusername/indcric-api/internal/service/profile"
)

// UserHandler обрабатывает запросы, связанные с профилем и пользователями
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe GET /api/users/me. Профиль создаётся при первом обращении.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.EnsureProfile(c.Request.Context(), middleware.UserID(c), c.GetString(middleware.CtxEmail))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{
		User:            user,
		IsAdmin:         user.IsAdmin(),
		ProfileComplete: profile.IsComplete(user),
	})
}

// UpdateMe PUT /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var upd service.ProfileUpdate
	if err := copier.Copy(&upd, &req); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	userID := middleware.UserID(c)
	if _, err := h.userService.EnsureProfile(ctx, userID, c.GetString(middleware.CtxEmail)); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.userService.UpdateProfile(ctx, userID, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{
		User:            user,
		IsAdmin:         user.IsAdmin(),
		ProfileComplete: profile.IsComplete(user),
	})
}

// GetCompleteness GET /api/users/me/completeness
func (h *UserHandler) GetCompleteness(c *gin.Context) {
	res, err := h.userService.Completeness(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListUsers GET /api/admin/users?page=&page_size=
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(service.DefaultPageSize)))
	page, pageSize = service.NormalizePage(page, pageSize)

	users, total, err := h.userService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserListResponse{Users: users, Total: total, Page: page, PageSize: pageSize})
}

// Metrics GET /api/admin/users/metrics
func (h *UserHandler) Metrics(c *gin.Context) {
	m, err := h.userService.Metrics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteUser DELETE /api/admin/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "пользователь удалён"})
}
