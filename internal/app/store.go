package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/favtube/internal/config"
	"github.com/MrSnakeDoc/favtube/internal/logger"
	"github.com/MrSnakeDoc/favtube/internal/store"
	"github.com/MrSnakeDoc/favtube/internal/store/badger"
	"github.com/MrSnakeDoc/favtube/internal/store/memory"
	"github.com/MrSnakeDoc/favtube/internal/store/mongo"
	redisstore "github.com/MrSnakeDoc/favtube/internal/store/redis"
)

func retryOptions(cfg *config.Config) store.RetryOptions {
	return store.RetryOptions{
		ConnectTimeout: cfg.ConnectTimeout,
		RetryInterval:  cfg.RetryInterval,
		MaxWait:        cfg.RetryMaxWait,
		PingTimeout:    cfg.PingTimeout,
		WarnThreshold:  cfg.WarnThreshold,
	}
}

// openStore connects the backend selected by cfg.StoreDriver.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return mongo.New(ctx, mongo.ConnectOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
			Retry:      retryOptions(cfg),
		}, log)

	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, redisstore.ConnectOptions{
			Addr:         cfg.RedisAddr,
			User:         cfg.RedisUser,
			Password:     cfg.RedisPassword,
			RedisDB:      cfg.RedisDB,
			DialTimeout:  cfg.RedisDT,
			ReadTimeout:  cfg.RedisRT,
			WriteTimeout: cfg.RedisWT,
			PoolSize:     cfg.RedisPoolSize,
			Retry:        retryOptions(cfg),
		}, log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil

	case config.DriverBadger:
		log.Info("opening badger store", logger.String("path", cfg.BadgerPath))
		return badger.Open(cfg.BadgerPath, log)

	case config.DriverMemory:
		log.Warn("using the in-memory store, data is lost on restart")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
