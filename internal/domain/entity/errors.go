package entity

import "errors"

// Error taxonomy for the ingestion and retrieval pipeline. Callers match with
// errors.Is; the HTTP layer maps these to status codes.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrExtraction          = errors.New("failed to extract text from document")
	ErrNoChunks            = errors.New("failed to create text chunks")
	ErrIndex               = errors.New("vector index operation failed")
	ErrCompletion          = errors.New("completion service failed")
	ErrNotFound            = errors.New("document not found")
	ErrValidation          = errors.New("invalid request")
)
