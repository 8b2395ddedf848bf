// Command parser runs the dependency-constraint resolution HTTP service:
// validate/solve over sentences, plus constraint-catalogue CRUD. Grounded
// on this codebase's cmd/api/main.go (config load, container init, chi
// server, graceful shutdown).
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"depconstraints/internal/di"
	"depconstraints/interfaces/http/rest"
	"depconstraints/pkg/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}
	defer container.Shutdown(context.Background())

	router := rest.NewRouter(container.Parser, container.Catalogues, container.Collector, container.Logger)
	handler := router.Setup()

	srv := &http.Server{
		Addr: cfg.ServerAddress,
		Handler: handler,
		ReadTimeout: 15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		container.Logger.Info("starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("server shutdown error", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("failed to sync logger: %v", err)
	}

	log.Println("server stopped")
}
