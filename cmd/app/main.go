package main

import (
	"context"
	"log"
	"os"

	"invoice-agent/internal/adapters/cli"
	"invoice-agent/internal/app"
	"invoice-agent/internal/core"
	"invoice-agent/internal/extract"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; only spreadsheet extraction will work")
	}
	agent := extract.NewAgent(apiKey, os.Getenv("OPENAI_MODEL"))
	store := core.NewStore()
	svc := app.NewAppService(store, extract.NewExtractor(agent))

	if len(os.Args) < 2 {
		log.Fatal("Usage: app <extract|extract-json|edit> ...")
	}
	cli.Run(ctx, svc, os.Args[1:])
}
