package main

import (
	"context"
	"log"

	"github.com/global-courier-network/gcn-backend/config"
	"github.com/global-courier-network/gcn-backend/internal/auth"
	"github.com/global-courier-network/gcn-backend/internal/bootstrap"
	cronjob "github.com/global-courier-network/gcn-backend/internal/items/cron"
	itemsrepo "github.com/global-courier-network/gcn-backend/internal/items/repository"
)

const serviceName = "gcn-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	deps := bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		DB:          db,
		Redis:       rdb,
		AuthMode:    cfg.Auth.Mode,
		CORSOrigins: cfg.App.CORSOrigins,
	}

	if cfg.Auth.Mode == "firebase" {
		authClient, err := auth.InitializeFirebase(&cfg.Firebase)
		if err != nil {
			log.Fatalf("failed to initialize firebase: %v", err)
		}
		deps.AuthClient = authClient
	} else {
		log.Println("AUTH_MODE=header: identity is taken from request headers, do not use in production")
	}

	scheduler := cronjob.NewScheduler(itemsrepo.NewItemRepository(db), rdb)
	scheduler.Start()
	defer scheduler.Stop()

	r := bootstrap.BuildRouter(deps)

	log.Printf("%s listening on :%s", serviceName, cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
