package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/stratako/stratako/internal/api"
	"github.com/stratako/stratako/internal/app"
	"github.com/stratako/stratako/internal/cli"
	"github.com/stratako/stratako/internal/config"
	"github.com/stratako/stratako/internal/db"
	"github.com/stratako/stratako/internal/identity"
	"github.com/stratako/stratako/internal/logutil"
	"github.com/stratako/stratako/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath is $STRATAKO_CONFIG or ~/.stratako/config.yaml.
func configPath() string {
	if v := os.Getenv("STRATAKO_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".stratako", "config.yaml")
}

func run() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.EnsureSecret(); err != nil {
		return err
	}

	logger, closeLog, err := logutil.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closeLog()

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	services := app.New(database, app.Identity{
		Policy: identity.PasswordPolicy{MinLength: cfg.Auth.MinPasswordLength},
		Issuer: identity.Issuer{Secret: []byte(cfg.Auth.Secret), TTL: cfg.Auth.TokenTTL},
	}, service.NewLogUseCaseObserver(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(&cli.App{
		App:       services,
		TokenPath: filepath.Join(filepath.Dir(cfg.Database.Path), "token"),
		Serve: func(ctx context.Context) error {
			return api.NewServer(services, logger, cfg.Server.AllowedOrigins).Run(ctx, cfg.Server.Addr)
		},
	})
	return root.ExecuteContext(ctx)
}
