package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":3000"`

	// BaseURL is the public base URL of the application.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
}
