package memory

import (
	"context"
	"sync"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/repository"
)

type chatHistory struct {
	mu        sync.RWMutex
	exchanges map[string][]*entity.ChatResponse
}

func NewChatHistory() repository.ChatHistory {
	return &chatHistory{exchanges: make(map[string][]*entity.ChatResponse)}
}

func (h *chatHistory) Append(ctx context.Context, documentID string, exchange *entity.ChatResponse) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exchanges[documentID] = append(h.exchanges[documentID], exchange)
	return nil
}

func (h *chatHistory) FindByDocument(ctx context.Context, documentID string) ([]*entity.ChatResponse, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	history := h.exchanges[documentID]
	out := make([]*entity.ChatResponse, len(history))
	copy(out, history)
	return out, nil
}

func (h *chatHistory) DeleteByDocument(ctx context.Context, documentID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.exchanges, documentID)
	return nil
}

func (h *chatHistory) CountAll(ctx context.Context) (int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, history := range h.exchanges {
		total += len(history)
	}
	return total, nil
}
