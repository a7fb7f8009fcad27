package main

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/cold-storage/internal/adapter/storage"
	"github.com/rl1809/cold-storage/internal/config"
	"github.com/rl1809/cold-storage/internal/core/service"
	"github.com/rl1809/cold-storage/internal/logger"
	"github.com/rl1809/cold-storage/internal/port"
)

type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *sqlx.DB
	redis  *redis.Client

	ledger   *service.LedgerService
	admin    *service.LedgerAdminService
	accounts *service.AccountService
}

func loadConfigAndLogger() (config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	log, err := logger.New(logger.Config{
		Development: cfg.IsDevelopment(),
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
	})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func openMySQL(ctx context.Context, cfg config.MySQLConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// newApp connects the stores and wires the services. Callers must Close it.
func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: log}

	a.db, err = openMySQL(ctx, cfg.MySQL)
	if err != nil {
		return nil, err
	}
	log.Info("connected to mysql")

	if cfg.Redis.Enabled {
		a.redis, err = openRedis(ctx, cfg.Redis)
		if err != nil {
			a.db.Close()
			return nil, err
		}
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Warn("redis disabled, idempotency tokens are ignored")
	}

	mysqlAdapter := storage.NewMySQLAdapter(a.db)
	accountAdapter := storage.NewMySQLAccountAdapter(a.db)

	var store port.SequenceStore = mysqlAdapter
	var cache port.CacheRepository
	if a.redis != nil {
		redisAdapter := storage.NewRedisAdapter(a.redis)
		cache = redisAdapter
		if cfg.Sequence.Backend == config.BackendRedis {
			store = redisAdapter
		}
	}
	log.Info("sequence backend selected", zap.String("backend", cfg.Sequence.Backend))

	a.ledger = service.NewLedgerService(service.NewSequenceAllocator(store), mysqlAdapter, cache, log)
	a.admin = service.NewLedgerAdminService(mysqlAdapter, log)
	a.accounts = service.NewAccountService(accountAdapter, accountAdapter, log)

	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	a.db.Close()
	a.logger.Info("connections closed")
	a.logger.Sync()
}
