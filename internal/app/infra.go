package app

import (
	"context"
	"database/sql"

	"github.com/Gun-code/sec-a-back/internal/config"
	"github.com/Gun-code/sec-a-back/internal/db"
	"github.com/Gun-code/sec-a-back/internal/logger"
	"github.com/Gun-code/sec-a-back/internal/redis"

	_ "github.com/lib/pq"
)

// Infra holds external backends. Either may be nil when not configured;
// the HTTP wiring falls back to in-memory stores in that case.
type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.DatabaseDSN != "" {
		sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, err
		}

		if err := db.RunAuthMigration(ctx, sqlDB); err != nil {
			return nil, err
		}

		logger.Info("database ready", nil)
		infra.DB = &db.DB{DB: sqlDB}
	} else {
		logger.Warn("DATABASE_DSN not set, using in-memory stores", nil)
	}

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}

		logger.Info("redis ready", nil)
		infra.Redis = redisClient
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory login-state store", nil)
	}

	return infra, nil
}

func (i *Infra) close() error {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.DB != nil {
		return i.DB.Close()
	}
	return nil
}
