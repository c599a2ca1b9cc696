package main

import (
	"context"
	"log"

	"github.com/heritage-esg/escrow-backend/config"
	"github.com/heritage-esg/escrow-backend/internal/bootstrap"
	"github.com/heritage-esg/escrow-backend/internal/payments"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	dsn := cfg.Database.DSN()

	sqlDB, err := bootstrap.OpenSQL(dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer sqlDB.Close()

	if err := bootstrap.RunMigrations(sqlDB, cfg.App.MigrationsDir); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := bootstrap.OpenPool(ctx, bootstrap.DBOptions{DSN: dsn})
	if err != nil {
		log.Fatalf("failed to open db pool: %v", err)
	}
	defer pool.Close()

	deps := bootstrap.RouterDeps{
		ServiceName:    "heritage-escrow-api",
		Version:        cfg.App.Version,
		AdminAPIKey:    cfg.App.AdminAPIKey,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DB:             pool,
		SQL:            sqlDB,
	}

	if cfg.Redis.Addr != "" {
		rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()
		deps.Redis = rdb
	} else {
		log.Println("Warning: REDIS_ADDR not set, transition events will not be published")
	}

	if cfg.Bank.BaseURL != "" {
		deps.Gateway = payments.NewBankClient(cfg.Bank.BaseURL, cfg.Bank.APIKey)
	} else {
		log.Println("Warning: BANK_API_URL not set, using in-memory payment gateway")
		deps.Gateway = payments.NewMemoryGateway()
	}

	r := bootstrap.BuildRouter(deps)

	log.Printf("heritage-escrow-api %s listening on :%s", cfg.App.Version, cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
