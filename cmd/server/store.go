package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/shahzaib1233/todo-app-phase-2/internal/config"
	"github.com/shahzaib1233/todo-app-phase-2/internal/infrastructure/monitor"
	pgInfra "github.com/shahzaib1233/todo-app-phase-2/internal/infrastructure/postgres"
	sqliteInfra "github.com/shahzaib1233/todo-app-phase-2/internal/infrastructure/sqlite"
	"github.com/shahzaib1233/todo-app-phase-2/internal/services/lifecycle"
	"github.com/shahzaib1233/todo-app-phase-2/repository"
	"github.com/shahzaib1233/todo-app-phase-2/repository/postgres"
	sqliteRepo "github.com/shahzaib1233/todo-app-phase-2/repository/sqlite"
)

type store struct {
	users  repository.UserRepository
	tasks  repository.TaskRepository
	pinger monitor.Pinger
}

// openStore connects the configured driver, prepares its schema and registers
// its teardown with the lifecycle manager.
func openStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, logger *zap.Logger) (*store, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqliteInfra.Open(cfg.SQLite, logger)
		if err != nil {
			return nil, err
		}
		manager.Register("sqlite", func(context.Context) error {
			return sqliteInfra.Close(db)
		})
		if err := sqliteRepo.AutoMigrate(db); err != nil {
			return nil, err
		}
		return &store{
			users:  sqliteRepo.NewUserRepository(db),
			tasks:  sqliteRepo.NewTaskRepository(db),
			pinger: sqliteInfra.Pinger{DB: db},
		}, nil

	default:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, err
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		manager.Register("postgres", func(context.Context) error {
			pgInfra.Close(pool, logger)
			return nil
		})
		return &store{
			users:  postgres.NewUserRepository(pool),
			tasks:  postgres.NewTaskRepository(pool),
			pinger: pool,
		}, nil
	}
}
