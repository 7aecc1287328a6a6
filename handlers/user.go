package handlers

import (
	"net/http"

	"rentsplit-backend/models"
	"rentsplit-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

type UpdateFCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// GET /api/users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", user.ToResponse())
}

// PUT /api/users/me/fcm-token
func (h *UserHandler) UpdateFCMToken(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req UpdateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.db.Model(&models.User{}).Where("id = ?", userID).
		Update("fcm_token", req.Token).Error; err != nil {
		utils.InternalError(c, "Failed to update token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token updated", nil)
}
