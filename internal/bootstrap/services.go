package bootstrap

import (
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/days/lms-ui-api/config"
	redisadapter "github.com/days/lms-ui-api/internal/adapters/redis"
	"github.com/days/lms-ui-api/internal/gateway"
	"github.com/days/lms-ui-api/internal/policy"
	"github.com/days/lms-ui-api/internal/service"
)

// ServiceContainer holds the wired application services.
type ServiceContainer struct {
	Sessions   *service.SessionService
	Gateway    *gateway.Client
	Exceptions policy.IdentityExceptions
}

// BuildServices wires the session store, the session service, and the
// backend gateway. The gateway's credential-rejection hook points back at
// the session service so a backend 401 drops the offending session.
func BuildServices(cfg *config.AppConfig, redisClient goredis.UniversalClient, logger *slog.Logger) (ServiceContainer, error) {
	store := redisadapter.NewSessionStore(redisClient)

	sessions := service.NewSessionService(service.SessionServiceOptions{
		Sessions: store,
		TTL:      cfg.Auth.SessionTTL,
	})

	gw, err := gateway.New(gateway.Options{
		BaseURL:              cfg.Backend.BaseURL,
		Timeout:              cfg.Backend.Timeout,
		OnCredentialRejected: sessions.Clear,
		Logger:               logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build gateway: %w", err)
	}

	return ServiceContainer{
		Sessions:   sessions,
		Gateway:    gw,
		Exceptions: policy.IdentityExceptions{SeedAdmin: cfg.Auth.SeedAdmin},
	}, nil
}
