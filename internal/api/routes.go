package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fabiokp/chatbot-wto/internal/service"
	"github.com/fabiokp/chatbot-wto/internal/session"
	"github.com/fabiokp/chatbot-wto/internal/store"
)

func RegisterRoutes(app *fiber.App, rag *service.RAGService, llm *service.LLMClient, st store.VectorStore, sessions *session.Registry, collection string) {
	h := NewHandler(rag, llm, st, sessions, collection)

	app.Get("/health", h.Health)
	app.Get("/status", h.Status)
	app.Get("/models", h.ListModels)

	app.Post("/sessions", h.CreateSession)
	app.Get("/sessions/:id", h.GetSession)
	app.Delete("/sessions/:id", h.DeleteSession)
	app.Post("/sessions/:id/ask", h.Ask)
}
