package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shahzaib1233/todo-app-phase-2/internal/config"
	pgInfra "github.com/shahzaib1233/todo-app-phase-2/internal/infrastructure/postgres"
	sqliteInfra "github.com/shahzaib1233/todo-app-phase-2/internal/infrastructure/sqlite"
	"github.com/shahzaib1233/todo-app-phase-2/pkg/logger"
	sqliteRepo "github.com/shahzaib1233/todo-app-phase-2/repository/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or revert database migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(pgInfra.Up), string(pgInfra.Down)},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := pgInfra.Up
		if len(args) == 1 {
			dir = pgInfra.Direction(args[0])
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		zapLogger, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
		if err != nil {
			return fmt.Errorf("logger error: %w", err)
		}
		defer zapLogger.Sync()

		if cfg.Database.Driver == config.DriverSQLite {
			if dir != pgInfra.Up {
				return fmt.Errorf("sqlite schema only supports %q", pgInfra.Up)
			}
			db, err := sqliteInfra.Open(cfg.SQLite, zapLogger)
			if err != nil {
				return err
			}
			defer sqliteInfra.Close(db)
			return sqliteRepo.AutoMigrate(db)
		}
		return pgInfra.Migrate(cfg, dir, zapLogger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
