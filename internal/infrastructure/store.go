package infrastructure

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/LeeyaD/phonebook-server/config"
	"github.com/LeeyaD/phonebook-server/internal/domain/repository"
	"github.com/LeeyaD/phonebook-server/internal/infrastructure/badgerdb"
	"github.com/LeeyaD/phonebook-server/internal/infrastructure/postgres"
)

// OpenStore opens the backend named by cfg.StorageDriver. The returned
// closer releases it.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if err := postgres.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			return repository.Store{}, nil, fmt.Errorf("migrations failed: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return repository.Store{}, nil, fmt.Errorf("failed to connect postgres: %w", err)
		}
		logger.Info("connected to postgres")
		return postgres.NewStore(pool), pool.Close, nil

	case config.DriverBadger:
		db, err := badgerdb.Open(cfg.BadgerDir)
		if err != nil {
			return repository.Store{}, nil, fmt.Errorf("failed to open badger: %w", err)
		}
		logger.WithFields(logrus.Fields{"dir": cfg.BadgerDir, "in_memory": db.InMemory}).Info("opened badger store")
		return db.Store(), func() { _ = db.Close() }, nil

	default:
		return repository.Store{}, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
