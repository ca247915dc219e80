package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	accounts "github.com/goliatone/go-accounts"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg, err := accounts.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer sqldb.Close()

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	if err := accounts.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	repo := accounts.NewRepositoryManager(db)
	repo.MustValidate()

	if err := accounts.SeedDefaultAccounts(ctx, repo, nil); err != nil {
		log.Fatalf("seed accounts: %v", err)
	}

	tokens := accounts.NewTokenServiceFromConfig(cfg)
	auth := accounts.NewAuthenticator(repo, tokens)

	controller := accounts.NewAccountController(repo, auth,
		accounts.WithControllerDebug(cfg.Debug),
	)

	app := fiber.New()
	controller.RegisterRoutes(app)

	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
