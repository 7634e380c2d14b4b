package dto

import (
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ListDocumentsResponse struct {
	Documents []*entity.Document `json:"documents"`
	Total     int                `json:"total"`
}

type CompareDocumentsRequest struct {
	DocumentIDs []string `json:"documentIds"`
}

type SimilarDocumentsResponse struct {
	SimilarDocuments []entity.SimilarDocument `json:"similarDocuments"`
}
