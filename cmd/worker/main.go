package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"eduvote/internal/app/bootstrap"
)

// Worker process entrypoint: outbox relay and event consumers.
func main() {
	_ = godotenv.Load()

	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("eduvote worker bootstrap failed: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("eduvote worker stopped: %v", err)
	}
}
