package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/repository"
	"github.com/librekpi/backend/internal/response"
	"github.com/librekpi/backend/internal/service"
	"github.com/librekpi/backend/internal/validator"
)

// UserAdminHandler handles administrative account management.
type UserAdminHandler struct {
	userService *service.UserService
	authService *service.AuthService
	log         zerolog.Logger
}

// NewUserAdminHandler creates a new user admin handler.
func NewUserAdminHandler(userService *service.UserService, authService *service.AuthService, log zerolog.Logger) *UserAdminHandler {
	return &UserAdminHandler{
		userService: userService,
		authService: authService,
		log:         logger.Component(log, "user_admin_handler"),
	}
}

// ListUsers godoc
// GET /admin/users
func (h *UserAdminHandler) ListUsers(c *gin.Context) {
	opts := repository.UserListOptions{
		Role:   model.Role(c.Query("role")),
		Search: c.Query("q"),
	}
	opts.Page, opts.PerPage = paginationQuery(c)

	users, total, err := h.userService.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	pagination := response.NewPagination(opts.Page, opts.PerPage, int(total))
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"users": users}, pagination)
}

// GetUser godoc
// GET /admin/users/:id
func (h *UserAdminHandler) GetUser(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// ChangeRole godoc
// PUT /admin/users/:id/role
func (h *UserAdminHandler) ChangeRole(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req model.ChangeRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().
		Str("user_id", id.Hex()).
		Str("role", string(req.Role)).
		Msg("user role changed")
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// ResetSession godoc
// POST /admin/users/:id/reset-session
func (h *UserAdminHandler) ResetSession(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.authService.ResetSession(c.Request.Context(), id.Hex()); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("user_id", id.Hex()).Msg("session reset by administrator")
	response.Success(c, http.StatusOK, gin.H{"message": "Session reset"})
}

// DeleteUser godoc
// DELETE /admin/users/:id
func (h *UserAdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("user_id", id.Hex()).Msg("user deleted")
	response.Success(c, http.StatusOK, gin.H{"message": "User deleted"})
}
