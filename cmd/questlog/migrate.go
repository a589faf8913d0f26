package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/questlog/internal/config"
	pgInfra "github.com/fastygo/questlog/internal/infrastructure/postgres"
	"github.com/fastygo/questlog/pkg/logger"
	"github.com/fastygo/questlog/repository/sqlite"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back database migrations",
		Long: `Apply every pending migration (up) or roll back the latest one (down).

SQLite databases are migrated from the model definitions and only support up.

Examples:
  questlog migrate up
  questlog migrate down`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(pgInfra.Up), string(pgInfra.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := pgInfra.Direction(args[0])
			if dir != pgInfra.Up && dir != pgInfra.Down {
				return fmt.Errorf("unknown direction %q, expected up or down", args[0])
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			zapLogger, err := logger.New(logger.Config{
				Level:    cfg.Logger.Level,
				Encoding: cfg.Logger.Encoding,
			})
			if err != nil {
				return fmt.Errorf("logger error: %w", err)
			}
			defer zapLogger.Sync()

			if cfg.Database.Driver == config.DriverSQLite {
				if dir == pgInfra.Down {
					return errors.New("sqlite schema cannot be rolled back")
				}
				db, err := sqlite.NewDB(cfg.SQLite.Path, zapLogger)
				if err != nil {
					return err
				}
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				zapLogger.Info("sqlite schema migrated", zap.String("path", cfg.SQLite.Path))
				return sqlDB.Close()
			}

			return pgInfra.Migrate(cfg, dir, zapLogger)
		},
	}
}
