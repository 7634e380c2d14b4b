package dto

import (
	"time"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
)

type AskQuestionRequest struct {
	Question    string   `json:"question"`
	DocumentIDs []string `json:"documentIds"`
	MaxSources  int      `json:"maxSources"`
}

type ChatResponse struct {
	Question     string                     `json:"question"`
	Answer       string                     `json:"answer"`
	Sources      []entity.SourceAttribution `json:"sources"`
	ResponseTime float64                    `json:"responseTime"`
	Timestamp    time.Time                  `json:"timestamp"`
	DocumentIDs  []string                   `json:"documentIds"`
}

func NewChatResponse(resp *entity.ChatResponse) ChatResponse {
	ids := resp.DocumentIDs
	if ids == nil {
		ids = []string{}
	}
	return ChatResponse{
		Question:     resp.Question,
		Answer:       resp.Answer,
		Sources:      resp.Sources,
		ResponseTime: resp.ResponseTime.Seconds(),
		Timestamp:    resp.Timestamp,
		DocumentIDs:  ids,
	}
}

type ChatHistoryResponse struct {
	DocumentID    string         `json:"documentId"`
	Conversations []ChatResponse `json:"conversations"`
}
