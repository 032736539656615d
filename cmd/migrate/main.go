package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/config"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/migrate"
)

type flags struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	_ = godotenv.Load()

	var f flags
	flag.StringVar(&f.cmd, "cmd", "up", "up|down|status|redo|version|create|validate")
	flag.StringVar(&f.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&f.name, "name", "", "migration name (create)")
	flag.StringVar(&f.version, "version", "", "target version YYYYMMDDHHMMSS (version)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "supershop-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"cmd":    f.cmd,
		"dir":    f.dir,
		"driver": cfg.DB.Driver,
	})

	if err := run(ctx, cfg, logg, f); err != nil {
		logg.Error(ctx, "migrate failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, f flags) error {
	switch f.cmd {
	case "create":
		if f.name == "" {
			return fmt.Errorf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(f.dir, f.name)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "path", path), "migration created")
		return nil
	case "validate":
		if err := migrate.ValidateDir(f.dir); err != nil {
			return err
		}
		logg.Info(ctx, "migrations valid")
		return nil
	}

	command, err := migrate.ParseCommand(f.cmd)
	if err != nil {
		return err
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer dbClient.Close()

	// The SQL files are Postgres DDL; a SQLite store is built from the models.
	if cfg.DB.Driver == config.DriverSQLite {
		if command != migrate.CommandUp {
			return fmt.Errorf("sqlite stores only support -cmd=up")
		}
		if err := migrate.AutoMigrateModels(dbClient.DB()); err != nil {
			return fmt.Errorf("sqlite auto migrate: %w", err)
		}
		logg.Info(ctx, "sqlite store migrated")
		return nil
	}

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}

	if command == migrate.CommandVersion {
		target, err := migrate.ParseVersion(f.version)
		if err != nil {
			return err
		}
		return migrate.MigrateToVersion(ctx, sqlDB, f.dir, target)
	}
	if err := migrate.Run(ctx, sqlDB, f.dir, command); err != nil {
		return err
	}
	logg.Info(ctx, "migrate done")
	return nil
}
