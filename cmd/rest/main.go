package main

import (
	"context"
	"log"

	"studybuddy-be/internal/bootstrap"
	"studybuddy-be/internal/config"
	"studybuddy-be/internal/server"
	"studybuddy-be/internal/tracer"

	"github.com/fatih/color"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	color.Cyan("StudyBuddy backend")
	color.White("  capability provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)
	color.White("  history store:       %s", cfg.Storage.Backend)

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg)
	defer shutdownTracer(context.Background())

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.EventBus.Close()
	if container.NatsPublisher != nil {
		defer container.NatsPublisher.Close()
	}

	// 4. Initialize and Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
