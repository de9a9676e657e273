package config

import (
	"os"
	"strings"
	"time"
)

// Google endpoint defaults. Overridable for self-hosted providers and tests.
const (
	defaultAuthURL      = "https://accounts.google.com/o/oauth2/auth"
	defaultTokenURL     = "https://oauth2.googleapis.com/token"
	defaultUserinfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	defaultTokeninfoURL = "https://www.googleapis.com/oauth2/v1/tokeninfo"

	defaultScopes          = "openid email profile"
	defaultProviderTimeout = 8 * time.Second
	defaultLoginStateTTL   = 5 * time.Minute
)

type Config struct {
	AppPort string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	OAuthScopes        []string

	// Provider endpoints. When OIDCIssuer is set the auth/token endpoints
	// are taken from discovery instead.
	OIDCIssuer   string
	AuthURL      string
	TokenURL     string
	UserinfoURL  string
	TokeninfoURL string

	ProviderTimeout time.Duration
	LoginStateTTL   time.Duration

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		OAuthScopes:        strings.Fields(getenv("OAUTH_SCOPES", defaultScopes)),

		OIDCIssuer:   os.Getenv("OIDC_ISSUER"),
		AuthURL:      getenv("OAUTH_AUTH_URL", defaultAuthURL),
		TokenURL:     getenv("OAUTH_TOKEN_URL", defaultTokenURL),
		UserinfoURL:  getenv("OAUTH_USERINFO_URL", defaultUserinfoURL),
		TokeninfoURL: getenv("OAUTH_TOKENINFO_URL", defaultTokeninfoURL),

		ProviderTimeout: getduration("PROVIDER_TIMEOUT", defaultProviderTimeout),
		LoginStateTTL:   getduration("LOGIN_STATE_TTL", defaultLoginStateTTL),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
