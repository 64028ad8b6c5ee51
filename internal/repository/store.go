package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"smartedtech/internal/config"
	"smartedtech/internal/database"
)

// Session store backends selectable with SESSION_STORE
const (
	StoreSQL    = "sql"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

const redisPingTimeout = 5 * time.Second

// OpenSessionStore connects the backend named by cfg.SessionStore. The
// returned close function releases its connection.
func OpenSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (SessionStore, func() error, error) {
	switch cfg.SessionStore {
	case StoreSQL, "":
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.RunMigrations(ctx, cfg.MigrationsPath, logger); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("session store ready", zap.String("store", StoreSQL), zap.String("db_type", cfg.DatabaseType))
		return NewSessionRepository(db), db.Close, nil

	case StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("session store ready", zap.String("store", StoreRedis), zap.String("addr", cfg.RedisAddr))
		return NewRedisSessionRepository(client), client.Close, nil

	case StoreMemory:
		logger.Warn("sessions are kept in memory and will not survive a restart")
		return NewMemorySessionRepository(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported session store: %s", cfg.SessionStore)
	}
}
