package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-pulse/api"
	"market-pulse/artifacts"
	"market-pulse/cache"
	"market-pulse/config"
	"market-pulse/database"
	"market-pulse/ingest"
	"market-pulse/report"
)

// App represents the main application
type App struct {
	config    *config.Config
	db        *database.Database
	readDB    *database.ReadDB
	redis     *cache.RedisClient
	repo      *database.PriceRepository
	pipeline  *ingest.Pipeline
	reports   *report.Service
	artifacts *artifacts.Store
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start starts the application
func (a *App) Start() error {
	// 1. Database connections
	fmt.Println("🗄️  Connecting to database...")
	db, err := database.Connect(
		a.config.DatabaseHost,
		a.config.DatabasePort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	readDB, err := database.NewReadDB(database.ConnConfig{
		Host:     a.config.DatabaseHost,
		Port:     a.config.DatabasePort,
		User:     a.config.DatabaseUser,
		Password: a.config.DatabasePassword,
		DBName:   a.config.DatabaseName,
	})
	if err != nil {
		return fmt.Errorf("read connection failed: %w", err)
	}
	a.readDB = readDB

	// 2. Schema
	a.repo = database.NewPriceRepository(a.db)
	if err := a.repo.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// 3. Redis (optional: caching disabled when unreachable)
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Report caching disabled.")
	} else {
		a.redis = redisClient
	}

	// 4. Object storage for report artifacts
	artifactStore, err := artifacts.NewStore(artifacts.Config{
		Address:   a.config.Minio.Address(),
		UseSSL:    a.config.Minio.UseSSL,
		AccessKey: a.config.Minio.AccessKey,
		SecretKey: a.config.Minio.SecretKey,
		Bucket:    a.config.Minio.Bucket,
	})
	if err != nil {
		fmt.Printf("⚠️  Object storage unavailable: %v. Report artifacts disabled.\n", err)
	} else {
		a.artifacts = artifactStore
	}

	// 5. Core engines
	a.pipeline = ingest.NewPipeline(a.repo)
	cacheTTL := time.Duration(a.config.ReportCacheTTLMinutes) * time.Minute
	a.reports = report.NewService(a.repo, a.redis, cacheTTL)

	// 6. API server
	apiServer := api.NewServer(a.pipeline, a.reports, a.repo, a.readDB, a.artifacts)
	go func() {
		if err := apiServer.Start(a.config.ServerPort); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	return a.gracefulShutdown()
}

// gracefulShutdown waits for an interrupt and closes connections
func (a *App) gracefulShutdown() error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		}
	}
	if a.readDB != nil {
		if err := a.readDB.Close(); err != nil {
			log.Printf("⚠️  Failed to close read connection: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("⚠️  Failed to close database: %v", err)
		}
	}

	fmt.Println("👋 Shutdown complete")
	return nil
}
