package api

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/fabiokp/chatbot-wto/internal/model"
	"github.com/fabiokp/chatbot-wto/internal/service"
	"github.com/fabiokp/chatbot-wto/internal/session"
	"github.com/fabiokp/chatbot-wto/internal/store"
)

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	rag        *service.RAGService
	llm        *service.LLMClient
	store      store.VectorStore
	sessions   *session.Registry
	collection string
}

func NewHandler(rag *service.RAGService, llm *service.LLMClient, st store.VectorStore, sessions *session.Registry, collection string) *Handler {
	return &Handler{rag: rag, llm: llm, store: st, sessions: sessions, collection: collection}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// Status reports the collection's rebuild state, so operators can tell a
// served collection from a missing or stale one.
func (h *Handler) Status(c *fiber.Ctx) error {
	st, err := h.store.Status(c.Context(), h.collection)
	if err != nil {
		log.Printf("status error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(st)
}

// ListModels proxies the model list of the OpenAI-compatible backend.
func (h *Handler) ListModels(c *fiber.Ctx) error {
	models, err := h.llm.ListModels(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(models)
}

// CreateSession starts a new conversation.
func (h *Handler) CreateSession(c *fiber.Ctx) error {
	s := h.sessions.Create()
	return c.Status(201).JSON(fiber.Map{"session_id": s.ID})
}

// GetSession returns the display rendering of the transcript: assistant
// turns carry their Sources list merged into the content.
func (h *Handler) GetSession(c *fiber.Ctx) error {
	s, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"session_id": s.ID, "turns": s.Render()})
}

// DeleteSession ends a conversation; its log is discarded.
func (h *Handler) DeleteSession(c *fiber.Ctx) error {
	h.sessions.Delete(c.Params("id"))
	return c.SendStatus(204)
}

// Ask runs one RAG turn within a session.
func (h *Handler) Ask(c *fiber.Ctx) error {
	s, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}

	var req model.AskRequest
	if err := c.BodyParser(&req); err != nil || len(req.Query) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request, expected JSON: {\"query\":\"...\"}"})
	}

	resp, err := h.rag.Ask(c.Context(), s, req.Query, req.TopK)
	if err != nil {
		log.Printf("rag ask error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(resp)
}
