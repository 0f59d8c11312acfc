package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
	"github.com/atlaserp/backend/pkg/errors"
)

// AuthHandler serves login, the current session, and user management.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		RespondAppError(c, errors.NewUnauthorizedError("User not authenticated"))
		return
	}
	RespondOK(c, "user", user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		RespondAppError(c, errors.NewUnauthorizedError("User not authenticated"))
		return
	}

	var req changePasswordRequest
	if !BindJSON(c, &req) {
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Password changed")
}

// CreateUser handles POST /api/auth/users (admin)
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if !BindJSON(c, &req) {
		return
	}
	user, err := h.auth.CreateUser(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "user", "User created", user)
}

// GetUsers handles GET /api/auth/users
func (h *AuthHandler) GetUsers(c *gin.Context) {
	users, err := h.auth.GetUsers(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "users", users)
}

// GetUser handles GET /api/auth/users/:id
func (h *AuthHandler) GetUser(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "user", user)
}

// UpdateUser handles PUT /api/auth/users/:id (admin)
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	var req services.UpdateUserRequest
	if !BindJSON(c, &req) {
		return
	}
	if err := h.auth.UpdateUser(c.Request.Context(), c.Param("id"), req); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "User updated")
}

// DeleteUser handles DELETE /api/auth/users/:id (admin)
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	if err := h.auth.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "User deleted")
}
