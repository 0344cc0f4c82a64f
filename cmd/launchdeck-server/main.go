package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/server"
	"github.com/existflow/launchdeck/internal/store"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	port := getenv("PORT", "8080")
	driver := getenv("DATABASE_DRIVER", store.DriverPostgres)
	dbURL := getenv("DATABASE_URL", "postgres://localhost:5432/launchdeck?sslmode=disable")

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(getenv("LOG_LEVEL", "INFO"))
	logCfg.FilePath = os.Getenv("LOG_FILE")
	logCfg.Console = true
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()
	lg := logger.Default()

	st, err := store.Open(driver, dbURL, lg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	srv := server.New(st, lg)
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error("Error closing server", logger.Err(err))
		}
	}()

	go func() {
		if err := srv.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", logger.Err(err))
			os.Exit(1)
		}
	}()
	logger.Info("launchdeck server starting", logger.F("port", port), logger.F("driver", driver))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("Shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", logger.Err(err))
	}
}
