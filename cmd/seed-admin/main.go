package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"feiraja/internal/config"
	"feiraja/internal/logger"
	"feiraja/internal/repositories"
	"feiraja/internal/services"
)

// seed-admin создаёт администратора или обновляет пароль существующего.
func main() {
	var (
		configPath = flag.String("config", "", "path to config.yaml")
		username   = flag.String("username", "admin", "admin username")
		email      = flag.String("email", "admin@feiraja.com", "admin e-mail")
		password   = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (or $ADMIN_PASSWORD)")
	)
	flag.Parse()

	if err := run(*configPath, *username, *email, *password); err != nil {
		fmt.Fprintln(os.Stderr, "seed-admin:", err)
		os.Exit(1)
	}
}

func run(configPath, username, email, password string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	zl, err := logger.New(cfg.Log.Env)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	auth := services.NewAuthService(repositories.NewAdminRepository(db), cfg.JWT.Secret, cfg.JWT.TTL)
	admin, err := auth.SeedAdmin(ctx, username, email, password)
	if err != nil {
		return err
	}
	zl.Sugar().Infow("[seed-admin] admin ready", "id", admin.ID, "username", admin.Username, "email", admin.Email)
	return nil
}
