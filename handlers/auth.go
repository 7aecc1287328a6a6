package handlers

import (
	"net/http"

	"rentsplit-backend/models"
	"rentsplit-backend/services"
	"rentsplit-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type GoogleSignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type AuthResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

// POST /auth/google
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	profile, err := h.auth.VerifyGoogleToken(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}

	user, token, err := h.auth.SignIn(profile)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Signed in", AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	})
}
