package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heritage-esg/escrow-backend/config"
	"github.com/heritage-esg/escrow-backend/internal/bootstrap"
	"github.com/heritage-esg/escrow-backend/internal/escrow"
	"github.com/heritage-esg/escrow-backend/internal/ledger/repository"
	"github.com/heritage-esg/escrow-backend/internal/reconcile"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker reconcile|schedule")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	pool, err := bootstrap.OpenPool(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("failed to open db pool: %v", err)
	}
	defer pool.Close()

	rec := reconcile.New(escrow.NewJournal(pool), repository.NewPostgresStore(pool))

	switch os.Args[1] {
	case "reconcile":
		report, err := rec.Run(ctx)
		if err != nil {
			log.Fatalf("reconcile failed: %v", err)
		}
		if !report.Balanced {
			os.Exit(1)
		}
	case "schedule":
		c := reconcile.NewScheduler(rec).Start()
		defer c.Stop()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down reconcile scheduler")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
