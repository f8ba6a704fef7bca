package main

import (
	"log"
	"net/http"
	"os"

	webAdapter "invoice-agent/internal/adapters/web"
	"invoice-agent/internal/app"
	"invoice-agent/internal/core"
	"invoice-agent/internal/extract"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; PDF and image uploads will fail")
	}
	agent := extract.NewAgent(apiKey, os.Getenv("OPENAI_MODEL"))

	store := core.NewStore()
	svc := app.NewAppService(store, extract.NewExtractor(agent))

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
