package config

import "time"

// AuthConfig groups session-related configuration.
type AuthConfig struct {
	// CookieName is the session cookie's name.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"lms_session"`

	// CookieDomain is the domain for the session cookie.
	// Leave empty to use the request domain.
	CookieDomain string `env:"SESSION_COOKIE_DOMAIN" envDefault:""`

	// SessionTTL bounds session lifetime when the backend token carries no
	// usable expiry of its own.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// SeedAdmin is the username of the provisioned administrator account.
	// That identity is exempt from destructive actions everywhere.
	SeedAdmin string `env:"SEED_ADMIN_USERNAME" envDefault:"admin"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.CookieName == "" {
		a.CookieName = "lms_session"
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 24 * time.Hour
	}
}
