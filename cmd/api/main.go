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

	"github.com/joho/godotenv"

	"pet-log/internal/adapters/auth/jwtauth"
	"pet-log/internal/adapters/auth/remote"
	"pet-log/internal/adapters/credentials/bcrypthash"
	pg "pet-log/internal/adapters/storage/postgres"
	"pet-log/internal/platform/config"
	"pet-log/internal/platform/logger"
	"pet-log/internal/ports/auth"
	"pet-log/internal/router"
)

func main() {
	// .env opcional para dev; en producción las vars vienen del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// El logger todavía no existe: armamos uno mínimo desde env.
		lg := logger.NewFromEnv()
		lg.Error("invalid configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	lg := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			lg.Error("cannot connect to postgres", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
	} else {
		lg.Warn("DB_DSN not set, using in-memory store", nil)
	}

	jwtSvc := jwtauth.New(jwtauth.Config{
		Secret: cfg.JWTSecret,
		Expiry: cfg.JWTExpiry,
	})

	// Verificador: JWT local, salvo que la verificación esté delegada a un
	// servicio de identidad externo.
	var verifier auth.AuthVerifier = jwtSvc
	if cfg.AuthVerifyURL != "" {
		rv, err := remote.NewVerifier(remote.Config{BaseURL: cfg.AuthVerifyURL})
		if err != nil {
			lg.Error("invalid AUTH_VERIFY_URL", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = rv
		lg.Info("token verification delegated to identity service", map[string]any{"url": cfg.AuthVerifyURL})
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		TokenIssuer:  jwtSvc,
		Hasher:       bcrypthash.New(),
		Logger:       lg,
		DB:           db,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting server", map[string]any{"addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	case sig := <-stop:
		lg.Info("shutting down", map[string]any{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			lg.Error("shutdown error", map[string]any{"error": err.Error()})
		}
	}
}
