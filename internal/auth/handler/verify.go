package handler

import (
	"net/http"

	"github.com/Gun-code/sec-a-back/internal/middleware"

	"github.com/gin-gonic/gin"
)

// verify validates the presented bearer token with the provider and returns
// the resolved identity.
func (h *Handler) verify(c *gin.Context) {
	tok, err := middleware.BearerToken(c.Request)
	if err != nil {
		h.fail(c, err)
		return
	}

	ident, err := h.service.VerifyAndResolve(c.Request.Context(), tok)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ident)
}
