// Command notifier consumes booking events from RabbitMQ and logs them.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nekogravitycat/car-rental-backend/internal/notification"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		log.Fatal("RABBITMQ_URL is required")
	}

	logger := log.New(os.Stdout, "", 0)
	consumer := notification.NewConsumer(url, notification.LogHandler(logger))

	log.Printf("notifier consuming %s", notification.QueueName)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("notifier stopped: %v", err)
	}
	log.Println("notifier exited gracefully")
}
