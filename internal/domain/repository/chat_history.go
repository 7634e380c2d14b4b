package repository

import (
	"context"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
)

// ChatHistory stores question/answer exchanges keyed by document id.
// Exchanges are append-only and removed en masse per document.
type ChatHistory interface {
	Append(ctx context.Context, documentID string, exchange *entity.ChatResponse) error
	FindByDocument(ctx context.Context, documentID string) ([]*entity.ChatResponse, error)
	DeleteByDocument(ctx context.Context, documentID string) error
	CountAll(ctx context.Context) (int, error)
}
