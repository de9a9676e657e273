package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refresh exchanges a refresh token for a new access token. A 401 here is
// terminal: the client must restart the login flow.
func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "refresh_token is required",
		})
		return
	}

	rec, err := h.service.RefreshCredential(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newTokenResponse(rec))
}

// tokenInfo documents how issued tokens behave. Static.
func (h *Handler) tokenInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "OAuth token information",
		"token_details": gin.H{
			"access_token": gin.H{
				"description": "bearer token for API calls",
				"expires_in":  "provider-reported, typically 3600 seconds",
				"usage":       "Authorization: Bearer {access_token}",
			},
			"refresh_token": gin.H{
				"description": "used to obtain a new access token without re-consent",
				"expires_in":  "until the user revokes the app's access",
			},
		},
		"endpoints": gin.H{
			"login":    "GET /api/v1/auth/login",
			"callback": "GET /api/v1/auth/callback",
			"verify":   "POST /api/v1/auth/verify",
			"refresh":  "POST /api/v1/auth/token/refresh",
		},
	})
}
