package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Varun5711/tasktracker/internal/config"
	"github.com/Varun5711/tasktracker/internal/database"
	"github.com/Varun5711/tasktracker/internal/lock"
	"github.com/Varun5711/tasktracker/internal/logger"
	"github.com/Varun5711/tasktracker/internal/redis"
	"github.com/Varun5711/tasktracker/internal/storage"
)

func main() {
	printSchema := flag.Bool("print", false, "print the schema for the configured driver and exit")
	flag.Parse()

	log := logger.New("migrate")
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	if *printSchema {
		switch cfg.Storage.Driver {
		case config.DriverPostgres:
			fmt.Fprint(os.Stdout, database.PostgresSchema)
		case config.DriverSQLite:
			fmt.Fprint(os.Stdout, database.SQLiteSchema)
		default:
			log.Fatal("Driver %q has no schema", cfg.Storage.Driver)
		}
		return
	}

	if cfg.Storage.Driver == config.DriverMemory {
		log.Info("Memory storage needs no migration")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	redisClient, err := redis.NewRedisClient(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil && !errors.Is(err, redis.ErrDisabled) {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Open applies the schema for both SQL drivers
	err = lock.WithLock(ctx, redisClient.GetClient(), storage.MigrationLockKey, time.Minute, func() error {
		store, err := storage.Open(ctx, cfg)
		if err != nil {
			return err
		}
		return store.Close()
	})
	if err != nil {
		log.Fatal("Migration failed: %v", err)
	}

	log.Info("Schema applied for %s storage", cfg.Storage.Driver)
}
