package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"campusevents/internal/activity"
	"campusevents/internal/config"
	"campusevents/internal/queue"
	"campusevents/internal/store"
)

// Worker consumes activity messages and persists the audit trail.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, cfg.ActivityQueue)
	}

	repo := activity.NewRepository(db.Client)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Kind == "" {
			continue
		}
		if err := repo.Insert(ctx, msg.Kind, msg.ActorID, msg.EventID, msg.Detail); err != nil {
			log.Printf("activity insert failed (%s by %s): %v", msg.Kind, msg.ActorID, err)
			continue
		}
		log.Printf("recorded %s by %s for event %s", msg.Kind, msg.ActorID, msg.EventID)
	}

	log.Println("worker stopped")
}
