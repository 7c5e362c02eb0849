package app

import (
	"context"
	"log"

	"github.com/apparts-js/apparts-login-server/internal/config"
	"github.com/apparts-js/apparts-login-server/internal/services"
)

// Run brings up the container: database migration and connectivity checks.
// The embedding application binds its own transport on top of
// Container.AuthSvc; see domain.AuthService.
func Run(ctx context.Context, cfg *config.Config, hooks services.Hooks) (*Container, error) {
	container, err := NewContainer(cfg, hooks)
	if err != nil {
		return nil, err
	}

	if err := container.RedisClient.Ping(ctx).Err(); err != nil {
		container.Close()
		return nil, err
	}

	log.Printf("login server ready (db migrated, redis reachable)")
	return container, nil
}
