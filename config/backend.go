package config

import (
	"strings"
	"time"
)

// BackendConfig points at the library REST API this service fronts.
type BackendConfig struct {
	// BaseURL is the backend API root, including the /api prefix.
	BaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8080/api"`

	// Timeout bounds each backend round trip.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 10 * time.Second
	}
}
