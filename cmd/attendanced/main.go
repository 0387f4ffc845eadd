package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"attendance-backend/config"
	"attendance-backend/internal/api"
	"attendance-backend/internal/attendance"
	"attendance-backend/internal/db"
	"attendance-backend/internal/notification"
	"attendance-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "attendance-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Push notifications are optional; attendance tracking works
	// without VAPID keys.
	var webpushOptions *webpush.Options
	var workerPool *notification.WorkerPool
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		workerPool = notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		workerPool.Start(ctx)
		logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys are not configured; push notifications disabled")
	}

	svc, err := attendance.NewService(appStore, workerPool, attendance.Options{
		Timezone:             cfg.Attendance.Timezone,
		GeofenceRadiusMeters: cfg.Attendance.GeofenceRadiusMeters,
		ConflictRetries:      cfg.Attendance.ConflictRetries,
		ReferenceTTL:         cfg.Attendance.ReferenceTTL(),
	})
	if err != nil {
		logger.Fatalf("failed to initialize attendance service: %v", err)
	}

	handler := api.NewHandler(svc, appStore, webpushOptions)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
