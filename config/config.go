// Package config holds the environment-driven application configuration.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See the individual domain config files
// for the available variables:
//   - auth.go: session and seed-account configuration
//   - backend.go: library backend API configuration
//   - database.go: Redis session store configuration
//   - http.go: HTTP server configuration
package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct composing the
// domain-specific sections.
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Auth groups session configuration.
	Auth AuthConfig

	// Backend points at the library REST API.
	Backend BackendConfig

	// Redis is the session store connection.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// HTTP is the server configuration.
	HTTP HTTPConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// Call it after env parsing.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.Backend.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks NODE_ENV as a fallback for the DEV flag, since the
// frontend tooling in this project sets NODE_ENV.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
