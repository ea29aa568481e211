package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"quickstock/infrastructure/audit"
	"quickstock/infrastructure/cache"
	httpserver "quickstock/infrastructure/http"
	"quickstock/infrastructure/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env", slog.Any("err", err))
	}

	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "quickstock.db")
	migrationsDir := getenv("MIGRATIONS_DIR", "infrastructure/sqlite/migrations")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		slog.Error("open db", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		slog.Error("apply migrations", slog.Any("err", err))
		os.Exit(1)
	}

	sessionCache := cache.NewUserSessionCache()
	userCache := cache.NewUserCache()
	auditSvc := audit.NewService()

	server := httpserver.NewServer(addr, db, sessionCache, userCache, auditSvc)
	if err := server.Start(); err != nil {
		slog.Error("start server", slog.Any("err", err))
		os.Exit(1)
	}
	slog.Info("quickstock listening", slog.String("addr", addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		slog.Error("graceful shutdown", slog.Any("err", err))
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
