package server

import (
	"context"
	"fmt"

	"catering_store/internal/cache"
	"catering_store/internal/config"
	"catering_store/internal/repository"
	"catering_store/internal/repository/memory"
	"catering_store/internal/repository/mongorepo"

	"github.com/sirupsen/logrus"
)

// OpenStore connects the backend selected by DB_DRIVER
func OpenStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := config.ConnectDB(ctx, cfg.DBConfig, log)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresStore(pool), nil

	case config.DriverMongo:
		client, err := config.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		log.WithField("database", cfg.MongoDatabase).Info("connected to MongoDB")
		return mongorepo.NewStore(client, client.Database(cfg.MongoDatabase)), nil

	case config.DriverMemory:
		log.Warn("using in-memory storage; data is lost on exit")
		return memory.New().Repositories(), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// Migrate creates the Postgres schema or the Mongo indexes
func Migrate(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) error {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := config.ConnectDB(ctx, cfg.DBConfig, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := config.AutoMigrate(ctx, pool); err != nil {
			return err
		}

	case config.DriverMongo:
		client, err := config.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		if err := mongorepo.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase)); err != nil {
			return err
		}

	case config.DriverMemory:
		log.Info("memory driver has no schema")
		return nil
	}
	log.WithField("driver", cfg.DBDriver).Info("migrations applied")
	return nil
}

// OpenProductCache returns a Redis cache when REDIS_ADDR is set. A Redis
// that cannot be reached disables caching instead of failing startup.
func OpenProductCache(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (cache.ProductCache, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewNoop(), func() {}
	}
	rdb, err := config.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.WithError(err).Warn("product cache disabled")
		return cache.NewNoop(), func() {}
	}
	log.WithField("addr", cfg.RedisAddr).Info("product cache enabled")
	return cache.NewRedisCache(rdb, cfg.ProductCacheTTL), func() { _ = rdb.Close() }
}
