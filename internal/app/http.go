package app

import (
	"context"
	"net/http"

	"github.com/Gun-code/sec-a-back/internal/auth"
	"github.com/Gun-code/sec-a-back/internal/auth/handler"
	"github.com/Gun-code/sec-a-back/internal/auth/provider/google"
	"github.com/Gun-code/sec-a-back/internal/auth/state"
	"github.com/Gun-code/sec-a-back/internal/auth/token"
	"github.com/Gun-code/sec-a-back/internal/config"
	"github.com/Gun-code/sec-a-back/internal/logger"
	"github.com/Gun-code/sec-a-back/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	var tokenStore token.Store
	var identityStore auth.IdentityStore
	if infra.DB != nil {
		tokenStore = token.NewPostgresStore(infra.DB)
		identityStore = auth.NewPostgresIdentityStore(infra.DB)
	} else {
		tokenStore = token.NewMemoryStore()
		identityStore = auth.NewMemoryIdentityStore()
	}

	var stateStore state.Store
	if infra.Redis != nil {
		stateStore = state.NewRedisStore(infra.Redis.Client)
	} else {
		stateStore = state.NewMemoryStore()
	}

	googleProvider, err := google.New(ctx, google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       cfg.OAuthScopes,
		Issuer:       cfg.OIDCIssuer,
		AuthURL:      cfg.AuthURL,
		TokenURL:     cfg.TokenURL,
		UserinfoURL:  cfg.UserinfoURL,
		TokeninfoURL: cfg.TokeninfoURL,
		Timeout:      cfg.ProviderTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	authService := auth.NewService(
		googleProvider,
		tokenStore,
		stateStore,
		identityStore,
		cfg.LoginStateTTL,
	)

	authHandler := handler.NewHandler(authService)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLog())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api/v1")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/users/me", func(c *gin.Context) {
		ident, ok := middleware.IdentityFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, ident)
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, infra.close, nil
}

// requestLog tags each request with a correlation id and logs its outcome.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		c.Next()

		logger.Info("request", map[string]any{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"client_ip":  c.ClientIP(),
		})
	}
}
