package entity

import "time"

// Chunk is a contiguous slice of a document's extracted text. StartChar and
// EndChar are offsets into the full text; for a document with n chunks the
// indices are exactly 0..n-1.
type Chunk struct {
	Content     string `json:"content"`
	Index       int    `json:"chunkIndex"`
	StartChar   int    `json:"startChar"`
	EndChar     int    `json:"endChar"`
	Filename    string `json:"filename"`
	TotalChunks int    `json:"totalChunks"`
}

// ChunkMetadata is what the vector index persists alongside each chunk.
type ChunkMetadata struct {
	DocumentID  string            `json:"document_id"`
	Filename    string            `json:"filename"`
	ChunkIndex  int               `json:"chunk_index"`
	StartChar   int               `json:"start_char"`
	EndChar     int               `json:"end_char"`
	TotalChunks int               `json:"total_chunks"`
	PageNumber  int               `json:"page_number,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// RetrievedChunk is a chunk coming back out of the vector index, with the
// similarity score populated on search results (zero on plain fetches).
type RetrievedChunk struct {
	DocumentID string  `json:"documentId"`
	Filename   string  `json:"filename"`
	Content    string  `json:"content"`
	ChunkIndex int     `json:"chunkIndex"`
	PageNumber int     `json:"pageNumber,omitempty"`
	Similarity float64 `json:"similarity"`
}
