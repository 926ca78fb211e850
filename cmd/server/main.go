package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kantin-be/internal/category"
	"kantin-be/internal/config"
	"kantin-be/internal/db"
	"kantin-be/internal/httpapi"
	"kantin-be/internal/logger"
	"kantin-be/internal/menu"
	"kantin-be/internal/middleware"
	"kantin-be/internal/seed"
	"kantin-be/internal/settings"
	"kantin-be/internal/user"

	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}

	addr := ":" + cfg.AppPort
	logger.L().Info("http server starting", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
	return startServerFunc(ctx, addr, handler)
}

// newServer builds repositories, services and the router. The admin account
// from ADMIN_EMAIL/ADMIN_PASSWORD is created on first boot.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	tokens, err := user.NewTokens(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	menuRepo := menu.NewRepository(database)
	categoryRepo := category.NewRepository(database)
	settingsRepo := settings.NewRepository(database)
	userRepo := user.NewRepository(database)

	userSvc := user.NewService(userRepo, tokens)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := userSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, err
		}
	}

	return httpapi.NewRouter(httpapi.Deps{
		Menu:          menu.NewService(menuRepo),
		Categories:    category.NewService(categoryRepo),
		Settings:      settings.NewService(settingsRepo),
		Users:         userSvc,
		Seeder:        seed.NewSeeder(categoryRepo, menuRepo, settingsRepo),
		Limiter:       middleware.NewRateLimiter(ctx, cfg.InternalKey),
		CORSOrigin:    cfg.CORSOrigin,
		SecureCookies: cfg.AppEnv == "production",
	}), nil
}

func startServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
