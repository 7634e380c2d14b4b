package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/delivery/http/dto"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/usecase/rag"
)

type DocumentHandler struct {
	ragUsecase  *rag.RAGUsecase
	maxFileSize int64
	allowedExts []string
}

func NewDocumentHandler(ragUsecase *rag.RAGUsecase, maxFileSize int64, allowedExts []string) *DocumentHandler {
	return &DocumentHandler{
		ragUsecase:  ragUsecase,
		maxFileSize: maxFileSize,
		allowedExts: allowedExts,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation), errors.Is(err, entity.ErrUnsupportedFileType):
		return fiber.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, entity.ErrExtraction), errors.Is(err, entity.ErrNoChunks):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// Upload accepts a multipart file, validates size and extension, and runs the
// ingestion pipeline.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to get file"})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "File too large. Maximum size is " + strconv.FormatInt(h.maxFileSize, 10) + " bytes",
		})
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !h.extensionAllowed(ext) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File type not supported. Allowed types: " + strings.Join(h.allowedExts, ", "),
		})
	}

	fileData, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer fileData.Close()

	buf, err := io.ReadAll(fileData)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	doc, err := h.ragUsecase.IngestDocument(c.Context(), buf, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *DocumentHandler) extensionAllowed(ext string) bool {
	for _, allowed := range h.allowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs, err := h.ragUsecase.ListDocuments(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if docs == nil {
		docs = []*entity.Document{}
	}
	return c.Status(fiber.StatusOK).JSON(dto.ListDocumentsResponse{Documents: docs, Total: len(docs)})
}

func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.ragUsecase.GetDocument(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}
	return c.Status(fiber.StatusOK).JSON(doc)
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.ragUsecase.DeleteDocument(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Document deleted successfully"})
}

func (h *DocumentHandler) Summarize(c *fiber.Ctx) error {
	summary, err := h.ragUsecase.SummarizeDocument(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(summary)
}

func (h *DocumentHandler) Similar(c *fiber.Ctx) error {
	topK, _ := strconv.Atoi(c.Query("top_k", "3"))

	similar, err := h.ragUsecase.FindSimilarDocuments(c.Context(), c.Params("id"), topK)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(dto.SimilarDocumentsResponse{SimilarDocuments: similar})
}

func (h *DocumentHandler) Compare(c *fiber.Ctx) error {
	var req dto.CompareDocumentsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	comparison, err := h.ragUsecase.CompareDocuments(c.Context(), req.DocumentIDs)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(comparison)
}

func (h *DocumentHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.ragUsecase.SystemStats(c.Context())
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}
