package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news_admin/internal/config"
	"news_admin/internal/logger"
	"news_admin/internal/middleware"
	"news_admin/internal/server"
	"news_admin/internal/store"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger.Init()
	defer logger.Log.Info("Application stopped")

	// .env не обязателен, переменные окружения могут прийти извне.
	_ = godotenv.Load()

	configPath := os.Getenv("NEWS_ADMIN_CONFIG")
	if configPath == "" {
		configPath = "config.json"
	}

	// Загрузка конфигурации
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}
	cfg.FromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Config validation error: %v", err)
	}

	// Файловое хранилище новостей
	st := store.NewStore(cfg.DataFile, cfg.BackupDir, cfg.MaxBackups)

	// HTTP сервер
	srv := server.NewServer(st, cfg.PasswordHash, cfg.PublicLimit)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/save-news", srv.SaveNews)
	mux.HandleFunc("GET /api/news", srv.GetNews)
	mux.HandleFunc("GET /api/news/{id}", srv.GetNewsDetail)
	mux.HandleFunc("GET /health", srv.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	// Публичная страница читает документ хранилища напрямую.
	mux.HandleFunc("GET /data/news.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, cfg.DataFile)
	})
	mux.Handle("/", http.FileServer(http.Dir(cfg.WebRoot)))

	// Применяем middleware
	handler := middleware.RequestIDMiddleware(mux)
	handler = middleware.MetricsMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: handler}
	go func() {
		logger.Log.Infof("Starting HTTP server on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Log.Fatalf("Forced shutdown: %v", err)
	}
}
