package main

import (
	"flag"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/fabiokp/chatbot-wto/internal/api"
	"github.com/fabiokp/chatbot-wto/internal/config"
	"github.com/fabiokp/chatbot-wto/internal/service"
	"github.com/fabiokp/chatbot-wto/internal/session"
	"github.com/fabiokp/chatbot-wto/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	vectorStore, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatal(err)
	}
	defer vectorStore.Close()

	llm := service.NewLLMClient(cfg.LLM)
	rag := service.NewRAGService(vectorStore, llm, llm, cfg.Store.Collection, cfg.Index.TopK)
	sessions := session.NewRegistry()

	app := fiber.New()
	api.RegisterRoutes(app, rag, llm, vectorStore, sessions, cfg.Store.Collection)

	log.Printf("server listening on %s (backend %s, collection %s)", cfg.ServerAddr, cfg.Store.Backend, cfg.Store.Collection)
	log.Fatal(app.Listen(cfg.ServerAddr))
}
