// Package main implements the entry point for the TaskPulse API server:
// a task-tracking service with a REST API and a realtime websocket
// gateway that pushes task changes to all of a user's connections.
package main

import (
	"log"
	"log/slog"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the environment may carry everything.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env file")
	}

	app, err := newApplication()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
