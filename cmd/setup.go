package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/flixport/internal/shared"
	"github.com/desertthunder/flixport/internal/ui"
	"github.com/urfave/cli/v3"
)

func (r *Runner) setupConfigPath() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}

// SetupDatabase creates the config file when missing, initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := r.setupConfigPath()

	config := r.config
	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.writePlain("%s\n", ui.Success("Created "+configPath))
			if loaded, err := shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
			} else {
				config = loaded
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.config = config
	r.writePlain("%s\n", ui.Success("Database ready at "+config.Database.Path))
	return nil
}

// SetupRollback rolls back the most recent migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	r.writePlain("%s\n", ui.Success("Rolled back latest migration on "+r.config.Database.Path))
	return nil
}
