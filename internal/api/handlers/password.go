package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/restaurant-directory/internal/services"
	"github.com/princeprakhar/restaurant-directory/internal/utils"
)

type PasswordHandler struct {
	authService *services.AuthService
}

func NewPasswordHandler(authService *services.AuthService) *PasswordHandler {
	return &PasswordHandler{
		authService: authService,
	}
}

// ChangePassword replaces the password of the authenticated user and
// revokes their refresh tokens.
func (h *PasswordHandler) ChangePassword(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		utils.SendUnauthorized(c, "Unauthorized")
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		respondError(c, "Failed to change password", err)
		return
	}

	utils.SendSuccess(c, "Password changed successfully", nil)
}
