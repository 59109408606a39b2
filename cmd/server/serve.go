package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/shahzaib1233/todo-app-phase-2/api/handler"
	"github.com/shahzaib1233/todo-app-phase-2/internal/config"
	"github.com/shahzaib1233/todo-app-phase-2/internal/infrastructure/monitor"
	"github.com/shahzaib1233/todo-app-phase-2/internal/middleware"
	"github.com/shahzaib1233/todo-app-phase-2/internal/router"
	"github.com/shahzaib1233/todo-app-phase-2/internal/security/password"
	"github.com/shahzaib1233/todo-app-phase-2/internal/security/token"
	"github.com/shahzaib1233/todo-app-phase-2/internal/services/lifecycle"
	"github.com/shahzaib1233/todo-app-phase-2/pkg/httpcontext"
	"github.com/shahzaib1233/todo-app-phase-2/pkg/logger"
	authUC "github.com/shahzaib1233/todo-app-phase-2/usecase/auth"
	taskUC "github.com/shahzaib1233/todo-app-phase-2/usecase/task"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
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

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.SignalContext(parent)
	defer cancel()

	st, err := openStore(appCtx, cfg, manager, zapLogger)
	if err != nil {
		_ = manager.Shutdown(context.Background())
		return fmt.Errorf("%s store: %w", cfg.Database.Driver, err)
	}

	mon := monitor.New(st.pinger, cfg.Database.Driver, cfg.Health.Interval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})

	tokens, err := token.New(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		_ = manager.Shutdown(context.Background())
		return err
	}
	hasher := password.NewHasher(password.DefaultCost)

	authUseCase := authUC.New(st.users, hasher, tokens, zapLogger)
	taskUseCase := taskUC.New(st.tasks, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handler := router.New(
		router.Handlers{
			Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
			Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
			Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
			Errors: apiHandler.NewErrorHandler(ctxAdapter, zapLogger),
		},
		middleware.BearerAuth(tokens, zapLogger),
		middleware.AccessLog(zapLogger),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	serverErr := make(chan error, 1)
	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("driver", cfg.Database.Driver))
		serverErr <- server.ListenAndServe(cfg.Address())
	}()
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	var runErr error
	select {
	case <-appCtx.Done():
	case err := <-serverErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("server crashed", zap.Error(err))
			runErr = err
		}
	}

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
	return runErr
}
