// Package store selects the persistence backend named in configuration.
package store

import (
	"context"
	"fmt"

	"labourhub/pkg/config"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"
	"labourhub/pkg/store/memory"
	"labourhub/pkg/store/mysql"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Open creates the store for cfg.Storage.Driver, migrating MySQL when auto_migrate is set
func Open(ctx context.Context, cfg *config.Config) (interfaces.Store, error) {
	switch cfg.Storage.Driver {
	case DriverMemory:
		logger.WarnCtx(ctx, "using in-memory store, data is lost on restart")
		return memory.New(), nil
	case DriverMySQL, "":
		repo, err := mysql.NewRepository(cfg.MySQL.DSN())
		if err != nil {
			return nil, err
		}
		if cfg.MySQL.AutoMigrate {
			if err := repo.GetDatastore().Migrate(ctx); err != nil {
				repo.Close()
				return nil, err
			}
			logger.InfoCtx(ctx, "mysql schema migrated")
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}
