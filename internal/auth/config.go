package auth

import (
	"fmt"
	"strings"
	"time"

	"talentbase-backend/internal/config"
)

// SessionCookieName is the cookie the console keeps the session token in
const SessionCookieName = "talentbase_session"

// AuthConfig holds all authentication configuration for the application
type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret" json:"jwt_secret"`
	Issuer       string        `yaml:"issuer" json:"issuer"`
	SessionTTL   time.Duration `yaml:"session_ttl" json:"session_ttl"`
	AdminEmail   string        `yaml:"admin_email" json:"admin_email"`
	CookieName   string        `yaml:"cookie_name" json:"cookie_name"`
	SecureCookie bool          `yaml:"secure_cookie" json:"secure_cookie"`
}

// NewAuthConfig derives the authentication configuration from the
// application configuration. ADMIN_EMAIL is read here once, at start.
func NewAuthConfig(cfg *config.Config) *AuthConfig {
	return &AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		Issuer:       "talentbase-backend",
		SessionTTL:   time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		AdminEmail:   normalizeEmail(cfg.AdminEmail),
		CookieName:   SessionCookieName,
		SecureCookie: cfg.IsProduction(),
	}
}

// ValidateConfig validates the authentication configuration
func (c *AuthConfig) ValidateConfig() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.CookieName == "" {
		return fmt.Errorf("cookie name is required")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
