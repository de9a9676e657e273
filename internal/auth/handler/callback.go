package handler

import (
	"net/http"

	"github.com/Gun-code/sec-a-back/internal/logger"

	"github.com/gin-gonic/gin"
)

// callback completes the OAuth flow: the provider redirects here with an
// authorization code and the state issued at login time.
func (h *Handler) callback(c *gin.Context) {

	// The provider reports consent denials and its own errors via the
	// error query parameter instead of a code.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"error": errParam,
			"desc":  c.Query("error_description"),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "oauth error: " + errParam,
		})
		return
	}

	code := c.Query("code")
	stateToken := c.Query("state")
	if code == "" || stateToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "code and state are required",
		})
		return
	}

	rec, err := h.service.CompleteCallback(c.Request.Context(), code, stateToken)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newTokenResponse(rec))
}
