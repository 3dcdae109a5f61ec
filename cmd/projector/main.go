package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"rentalcar-backend/internal/cache/redis"
	"rentalcar-backend/internal/config"
	"rentalcar-backend/internal/logger"
	"rentalcar-backend/internal/messaging/kafka"
	"rentalcar-backend/internal/projection"
	"rentalcar-backend/internal/repository/postgres"
)

// The projector is the read-side process: it consumes rental events and
// maintains the denormalized views. Run as many instances as the topic has
// partitions; the consumer group spreads them out.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting rental projector...", "topic", cfg.Kafka.Topic, "group", cfg.Kafka.ConsumerGroup)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	viewCache := redis.NewViewCache(&cfg.Redis)
	defer viewCache.Close()

	updater := projection.NewUpdater(
		store.RentalRepository,
		store.CustomerRepository,
		store.CarRepository,
		store.RentalViewRepository,
		viewCache,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := kafka.NewConsumer(&cfg.Kafka, updater.HandleEvent)
	defer consumer.Close()
	consumer.Start(ctx)

	publisher := kafka.NewPublisher(&cfg.Kafka)
	defer publisher.Close()
	consumer.StartErrorReprocessor(ctx, publisher, 5*time.Second)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down projector...")
	cancel()
	logger.Info("Projector stopped")
}
