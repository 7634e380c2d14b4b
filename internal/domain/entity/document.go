package entity

import "time"

type DocumentStatus string

const (
	StatusProcessed DocumentStatus = "processed"
	StatusFailed    DocumentStatus = "failed"
)

type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	ContentType string         `json:"contentType"`
	Size        int64          `json:"size"`
	UploadDate  time.Time      `json:"uploadDate"`
	PageCount   int            `json:"pageCount,omitempty"`
	WordCount   int            `json:"wordCount"`
	TotalChunks int            `json:"totalChunks"`
	Status      DocumentStatus `json:"status"`
}

// ExtractionMetadata carries per-format counters reported by the extractor.
// Only the fields relevant to the source format are set.
type ExtractionMetadata struct {
	PageCount      int `json:"pageCount,omitempty"`
	ParagraphCount int `json:"paragraphCount,omitempty"`
	TableCount     int `json:"tableCount,omitempty"`
	LineCount      int `json:"lineCount,omitempty"`
	CharCount      int `json:"charCount,omitempty"`
	WordCount      int `json:"wordCount"`
}

type DocumentSummary struct {
	DocumentID  string    `json:"documentId"`
	Summary     string    `json:"summary"`
	KeyPoints   []string  `json:"keyPoints"`
	Themes      []string  `json:"themes"`
	WordCount   int       `json:"wordCount"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type ComparedDocument struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	WordCount int    `json:"wordCount"`
}

type DocumentComparison struct {
	Similarities []string           `json:"similarities"`
	Differences  []string           `json:"differences"`
	CommonThemes []string           `json:"commonThemes"`
	Documents    []ComparedDocument `json:"documents"`
}

// SimilarDocument is one candidate from a find-similar query, ranked by the
// mean similarity of its matching chunks.
type SimilarDocument struct {
	DocumentID        string    `json:"documentId"`
	Filename          string    `json:"filename"`
	AverageSimilarity float64   `json:"averageSimilarity"`
	MatchingChunks    int       `json:"matchingChunks"`
	SampleExcerpts    []string  `json:"sampleExcerpts"`
	Document          *Document `json:"document,omitempty"`
}

type IndexStats struct {
	TotalChunks     int    `json:"totalChunks"`
	UniqueDocuments int    `json:"uniqueDocuments"`
	EmbeddingModel  string `json:"embeddingModel"`
}

type SystemStats struct {
	TotalDocuments     int    `json:"totalDocuments"`
	TotalChunks        int    `json:"totalChunks"`
	TotalConversations int    `json:"totalConversations"`
	EmbeddingModel     string `json:"embeddingModel"`
}
