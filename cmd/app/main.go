package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"walletportal/config"
	"walletportal/handlers"
	"walletportal/qr"
	"walletportal/receipt"
	"walletportal/repository"
	"walletportal/service"
	"walletportal/transferapi"

	"github.com/gorilla/mux"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfigOrPanic()

	log := setupLogger(cfg.Env)
	log.Info("Starting wallet portal",
		slog.String("env", cfg.Env),
		slog.String("addr", cfg.Addr()),
		slog.String("transfer_api", cfg.TransferAPI.BaseURL),
	)

	db := config.InitDB(ctx, cfg)
	defer func() { _ = db.Close() }()

	repoImpl := repository.NewPostgresRepository(db)
	transfers := transferapi.NewClient(cfg.TransferAPI.BaseURL, cfg.TransferAPI.Timeout)

	svc := service.NewService(
		repoImpl,
		transfers,
		qr.NewEncoder(),
		receipt.NewStore(),
		log,
		cfg.Session.TTL,
	)

	h := handlers.NewHandler(svc, log, handlers.Options{
		Secret:       cfg.Session.Secret,
		EntryPath:    cfg.Session.EntryPath,
		SecureCookie: cfg.Env == envProd,
	})

	r := mux.NewRouter()
	h.Register(r)

	srv := http.Server{
		Handler:      r,
		Addr:         cfg.Addr(),
		WriteTimeout: cfg.HTTP.WriteTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	log.Info("Got signal to shutdown server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Stopping server error", "error", err)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}
	return log
}
