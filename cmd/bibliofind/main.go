package main

import (
	"context"
	"log"

	"github.com/MrSnakeDoc/bibliofind/internal/app"
	"github.com/MrSnakeDoc/bibliofind/internal/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("❌ bibliofind failed to read .env: %v", err)
	}

	a, err := app.New(context.Background(), config.Load())
	if err != nil {
		log.Fatalf("❌ bibliofind failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ bibliofind failed: %v", err)
	}
}
