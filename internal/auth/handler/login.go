package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginResponse struct {
	LoginURL      string         `json:"login_url"`
	State         string         `json:"state"`
	Authenticated bool           `json:"authenticated"`
	Token         *tokenResponse `json:"token,omitempty"`
}

// login returns the provider authorization URL for a user without a usable
// credential, or short-circuits with the stored credential when one is live.
func (h *Handler) login(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id is required",
		})
		return
	}
	email := c.Query("email")

	result, err := h.service.InitiateLogin(c.Request.Context(), userID, email)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := loginResponse{
		LoginURL:      result.LoginURL,
		State:         result.State,
		Authenticated: result.Authenticated,
	}
	if result.Authenticated {
		tr := newTokenResponse(result.Token)
		resp.Token = &tr
	}

	c.JSON(http.StatusOK, resp)
}
