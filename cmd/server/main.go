package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/phishdrill/internal/api"
	"github.com/ignite/phishdrill/internal/auth"
	"github.com/ignite/phishdrill/internal/config"
	"github.com/ignite/phishdrill/internal/pkg/distlock"
	"github.com/ignite/phishdrill/internal/service/campaign"
	"github.com/ignite/phishdrill/internal/service/interaction"
	"github.com/ignite/phishdrill/internal/storage"
	"github.com/ignite/phishdrill/internal/templates"
	"github.com/ignite/phishdrill/internal/tracking"
	"github.com/ignite/phishdrill/internal/worker"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	log.Printf("DynamoDB storage initialized (table: %s, region: %s)", cfg.Storage.TableName, cfg.Storage.Region)

	// Template catalog and campaign service
	catalog := templates.NewCatalog()
	campaignSvc := campaign.NewService(store, catalog)

	// Redis: dashboard stats cache and scheduler lock (both optional)
	var stats *api.StatsCache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Printf("Redis unreachable, dashboard cache disabled: %v", err)
		} else {
			redisClient = client
			stats = api.NewStatsCache(redisClient, time.Duration(cfg.Redis.StatsTTLSecond)*time.Second)
			log.Printf("Dashboard stats cache enabled (ttl: %ds)", cfg.Redis.StatsTTLSecond)
		}
		pingCancel()
	}

	handlers := api.NewHandlers(campaignSvc, catalog, stats, cfg.Tracking.PublicBaseURL)
	handlers.SetTrackingHandler(tracking.NewHandler(interaction.NewRecorder(store)))

	// Authentication manager if enabled
	var server *api.Server
	if cfg.Auth.Enabled && cfg.Auth.GoogleClientID != "" {
		baseURL := fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
		if envURL := os.Getenv("AUTH_BASE_URL"); envURL != "" {
			baseURL = envURL
		}

		authManager := auth.NewAuthManager(&cfg.Auth, baseURL)

		// Pre-flight: validate OAuth credentials against Google before
		// accepting traffic, so misconfiguration doesn't surface only at
		// first operator login.
		log.Println("Validating Google OAuth credentials...")
		if err := authManager.ValidateCredentials(ctx); err != nil {
			log.Fatalf("OAuth pre-flight FAILED: %v", err)
		}
		log.Println("Google OAuth credentials validated successfully")

		authManager.CleanupExpiredSessions()
		log.Printf("Google OAuth enabled for domain: %s (callback: %s/auth/callback)", cfg.Auth.AllowedDomain, baseURL)

		server = api.NewServerWithAuth(cfg.Server, handlers, authManager)
	} else {
		log.Println("Authentication disabled")
		server = api.NewServer(cfg.Server, handlers)
	}

	// Campaign lifecycle scheduler
	var scheduler *worker.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = worker.NewScheduler(
			store,
			time.Duration(cfg.Scheduler.PollIntervalSeconds)*time.Second,
			time.Duration(cfg.Scheduler.RunWindowHours)*time.Hour,
		)
		if redisClient != nil {
			pollTTL := time.Duration(cfg.Scheduler.PollIntervalSeconds) * time.Second
			scheduler.SetLock(distlock.NewRedisLock(redisClient, "scheduler", pollTTL))
		}
		if err := scheduler.Start(); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		log.Printf("Campaign scheduler started (poll: %ds, run window: %dh)",
			cfg.Scheduler.PollIntervalSeconds, cfg.Scheduler.RunWindowHours)
	}

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := cfg.Server.Addr()
		log.Printf("Starting operator API on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	if scheduler != nil {
		scheduler.Stop()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
