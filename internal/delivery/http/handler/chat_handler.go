package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/delivery/http/dto"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/usecase/rag"
)

type ChatHandler struct {
	ragUsecase *rag.RAGUsecase
}

func NewChatHandler(ragUsecase *rag.RAGUsecase) *ChatHandler {
	return &ChatHandler{ragUsecase: ragUsecase}
}

func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	var req dto.AskQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Question is required"})
	}

	resp := h.ragUsecase.AskQuestion(c.Context(), req.Question, req.DocumentIDs, req.MaxSources)
	return c.Status(fiber.StatusOK).JSON(dto.NewChatResponse(resp))
}

func (h *ChatHandler) History(c *fiber.Ctx) error {
	documentID := c.Params("id")

	history, err := h.ragUsecase.GetChatHistory(c.Context(), documentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	conversations := make([]dto.ChatResponse, len(history))
	for i, exchange := range history {
		conversations[i] = dto.NewChatResponse(exchange)
	}
	return c.Status(fiber.StatusOK).JSON(dto.ChatHistoryResponse{
		DocumentID:    documentID,
		Conversations: conversations,
	})
}

func (h *ChatHandler) ClearHistory(c *fiber.Ctx) error {
	if err := h.ragUsecase.ClearChatHistory(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Chat history cleared successfully"})
}
