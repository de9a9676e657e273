package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Gun-code/sec-a-back/internal/auth"
	"github.com/Gun-code/sec-a-back/internal/auth/token"

	"github.com/gin-gonic/gin"
)

// Service is the slice of the auth orchestrator the HTTP layer consumes.
type Service interface {
	InitiateLogin(ctx context.Context, userID, email string) (*auth.LoginResult, error)
	CompleteCallback(ctx context.Context, code, stateToken string) (*token.Record, error)
	VerifyAndResolve(ctx context.Context, accessToken string) (*auth.Identity, error)
	RefreshCredential(ctx context.Context, refreshToken string) (*token.Record, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1/auth")
	v1.GET("/login", h.login)
	v1.GET("/callback", h.callback)
	v1.POST("/verify", h.verify)
	v1.POST("/token/refresh", h.refresh)
	v1.GET("/token/info", h.tokenInfo)
}

// tokenResponse is the wire shape shared by the callback and refresh
// endpoints. expires_in is the provider-reported lifetime at issuance.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    string `json:"expires_at"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

func newTokenResponse(rec *token.Record) tokenResponse {
	return tokenResponse{
		AccessToken:  rec.AccessToken,
		TokenType:    rec.TokenType,
		ExpiresIn:    int(rec.ExpiresAt.Sub(rec.IssuedAt).Seconds()),
		ExpiresAt:    rec.ExpiresAt.UTC().Format(time.RFC3339),
		RefreshToken: rec.RefreshToken,
		Scope:        rec.Scope,
	}
}

// fail maps the auth error taxonomy onto HTTP status codes. Transient
// provider outages are 503, never 401.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid or expired state",
		})
	case errors.Is(err, auth.ErrInvalidGrant):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authorization expired, retry login",
		})
	case errors.Is(err, auth.ErrRefreshInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":           "refresh token invalid",
			"action_required": "restart login",
		})
	case errors.Is(err, auth.ErrMissingCredential),
		errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "unauthorized",
		})
	case errors.Is(err, auth.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "credential not found",
		})
	case errors.Is(err, auth.ErrProviderUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "identity provider unavailable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
	}
}
