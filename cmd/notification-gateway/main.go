package main

import (
	"auction-settlement/internal/api/handlers"
	"auction-settlement/internal/config"
	"auction-settlement/internal/infrastructure/redis"
	"auction-settlement/internal/infrastructure/websocket"
	"auction-settlement/internal/services"
	"auction-settlement/pkg/logger"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

func main() {
	bootLog := logger.New()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.NewWithConfig(cfg.Log.Level)

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	connManager := websocket.NewConnectionManager(log)
	subscriber := redis.NewRedisNotificationSubscriber(rdb, cfg.Events.NotificationChannel, log)
	listener := services.NewNotificationListener(connManager, log)

	router := mux.NewRouter()
	handlers.NewWebSocketHandlers(connManager, log).RegisterRoutes(router)

	listenCtx, stopListening := context.WithCancel(context.Background())
	defer stopListening()

	go func() {
		if err := listener.Start(listenCtx, subscriber); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Notification listener stopped", "error", err)
		}
	}()

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Gateway.Host, cfg.Gateway.Port),
		Handler: router,
	}

	go func() {
		log.Info("Starting notification gateway", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down notification gateway...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	stopListening()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	connManager.CloseAll()

	log.Info("Notification gateway stopped")
}
