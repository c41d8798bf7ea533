// server is the TaskTrack HTTP server binary. It exposes task CRUD and
// smart-suggestion endpoints backed by a SQL store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tasktrack/internal/api"
	"tasktrack/internal/config"
	"tasktrack/internal/docs"
	"tasktrack/internal/logging"
	"tasktrack/internal/storage"
	"tasktrack/internal/suggestion"
	"tasktrack/internal/tasks"
)

func main() {
	addr := flag.String("addr", "", "listen address, overrides the configured host and port")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format).WithComponent("server")

	db, err := storage.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	repo := storage.NewTaskRepository(db, cfg.Database.Provider)
	if err := repo.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	engine := suggestion.NewEngineWithConfig(suggestion.Config{
		SimilarityThreshold: cfg.Suggestion.SimilarityThreshold,
	})
	service := tasks.NewService(repo, engine, logger)

	docsHandler, err := docs.NewHandler()
	if err != nil {
		log.Fatalf("Failed to load OpenAPI document: %v", err)
	}

	router := api.NewRouter(cfg, service, docsHandler, logger)

	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	}

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      router.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", listenAddr,
			"env", cfg.Env,
			"provider", cfg.Database.Provider,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
