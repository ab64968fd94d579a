package main

import (
	"log"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"airstation/internal/config"
	"airstation/internal/controller"
	"airstation/internal/logger"
	"airstation/internal/routes"
	"airstation/internal/service"
	"airstation/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "dashboard")
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer zlog.Sync()

	store, err := storage.NewStore(cfg.LogDir)
	if err != nil {
		zlog.Fatal("opening CSV store", zap.Error(err))
	}

	svc := service.NewDataService(store, time.Duration(cfg.WindowHours)*time.Hour)
	ctrl := controller.NewDataController(svc, zlog)
	router := routes.SetupRouter(ctrl)

	// CORS setup
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowOrigins,
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Content-Type"},
	})
	handler := c.Handler(router)

	zlog.Info("dashboard server listening",
		zap.String("port", cfg.Port),
		zap.String("log_dir", cfg.LogDir),
		zap.Int("window_hours", cfg.WindowHours),
	)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
