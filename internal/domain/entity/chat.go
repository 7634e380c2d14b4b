package entity

import "time"

// SourceAttribution records where a piece of an answer came from. Excerpt is
// capped at 200 characters with an ellipsis marker.
type SourceAttribution struct {
	DocumentID     string  `json:"documentId"`
	DocumentName   string  `json:"documentName"`
	PageNumber     int     `json:"pageNumber,omitempty"`
	Excerpt        string  `json:"excerpt"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// ChatResponse is the result of one ask operation. It is appended verbatim to
// the chat history of every document the question was scoped to.
type ChatResponse struct {
	Question     string              `json:"question"`
	Answer       string              `json:"answer"`
	Sources      []SourceAttribution `json:"sources"`
	ResponseTime time.Duration       `json:"responseTime"`
	Timestamp    time.Time           `json:"timestamp"`
	DocumentIDs  []string            `json:"documentIds"`
}
