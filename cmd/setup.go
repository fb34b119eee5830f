package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/podfetch-console/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase writes a config file when none exists, then initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
	}

	r.logger.Info("initializing database", "driver", r.config.Database.Driver)

	db, err := r.database(ctx)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db, r.config.Database.Driver); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.target())
	return r.writePlain("✓ Database ready: %s\n", r.target())
}

// SetupRollback reverts the most recent migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	r.logger.Info("rolling back last migration")
	if err := shared.RollbackMigration(db, r.config.Database.Driver); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	return r.writePlainln("Rolled back the last migration of %s", r.target())
}

// target names the database without exposing MySQL credentials.
func (r *Runner) target() string {
	if r.config.Database.Driver == shared.DriverMySQL {
		return shared.DriverMySQL
	}
	return r.config.Database.Path
}
