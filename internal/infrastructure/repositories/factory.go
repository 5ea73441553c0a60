package repositories

import (
	"context"
	"fmt"

	"mediagate/internal/core/ports"
	"mediagate/internal/infrastructure/repositories/memory"
	pgrepo "mediagate/internal/infrastructure/repositories/postgres"
	redisrepo "mediagate/internal/infrastructure/repositories/redis"
	"mediagate/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RepositoryFactory creates the store set for the configured backend.
// Redis falls back to memory when the connection fails; Postgres does not,
// because serving access decisions from an empty store would deny everyone.
type RepositoryFactory struct {
	backend     string
	redisClient *redis.Client
	db          *gorm.DB
	logger      *zap.SugaredLogger
}

func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		backend: cfg.Stores.Backend,
		logger:  logger,
	}

	switch cfg.Stores.Backend {
	case "redis":
		client, err := redisrepo.NewRedisClient(
			cfg.Stores.Redis.Address,
			cfg.Stores.Redis.Password,
			cfg.Stores.Redis.DB,
			cfg.Stores.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory stores",
				"error", err,
			)
			factory.backend = "memory"
		} else {
			factory.redisClient = client
			logger.Info("using Redis stores")
		}
	case "postgres":
		db, err := pgrepo.NewPostgresDB(cfg.Stores.Postgres.DSN, cfg.Stores.Postgres.MaxOpenConns, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres stores: %w", err)
		}
		factory.db = db
		logger.Info("using Postgres stores")
	}

	if factory.backend == "memory" {
		logger.Info("using memory stores")
	}

	return factory, nil
}

func (f *RepositoryFactory) CreatePurchaseStore() ports.PurchaseStore {
	switch f.backend {
	case "redis":
		return redisrepo.NewRedisPurchaseStore(f.redisClient)
	case "postgres":
		return pgrepo.NewPostgresPurchaseStore(f.db)
	}
	return memory.NewMemoryPurchaseStore()
}

func (f *RepositoryFactory) CreateSubscriptionStore() ports.SubscriptionStore {
	switch f.backend {
	case "redis":
		return redisrepo.NewRedisSubscriptionStore(f.redisClient)
	case "postgres":
		return pgrepo.NewPostgresSubscriptionStore(f.db)
	}
	return memory.NewMemorySubscriptionStore()
}

func (f *RepositoryFactory) CreateProductStore() ports.ProductStore {
	switch f.backend {
	case "redis":
		return redisrepo.NewRedisProductStore(f.redisClient)
	case "postgres":
		return pgrepo.NewPostgresProductStore(f.db)
	}
	return memory.NewMemoryProductStore()
}

func (f *RepositoryFactory) CreateResourceCatalog() ports.ResourceCatalog {
	switch f.backend {
	case "redis":
		return redisrepo.NewRedisResourceCatalog(f.redisClient)
	case "postgres":
		return pgrepo.NewPostgresResourceCatalog(f.db)
	}
	return memory.NewMemoryResourceCatalog()
}

// Close releases backend connections.
func (f *RepositoryFactory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	if f.db != nil {
		return pgrepo.ClosePostgresDB(f.db)
	}
	return nil
}

// HealthCheck pings the active backend.
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	switch f.backend {
	case "redis":
		return f.redisClient.Ping(ctx).Err()
	case "postgres":
		sqlDB, err := f.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return nil
}
