package main

import (
	"context"
	"log"

	"github.com/pressroomhq/pressroom/internal/press/app"
)

func main() {
	cfg, err := app.LoadConfig(context.Background())
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
