package repository

import (
	"context"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
)

// DocumentRecord is everything the registry keeps per ingested document:
// the public metadata plus the stored file path and the extracted full text.
type DocumentRecord struct {
	Document   *entity.Document
	FilePath   string
	Text       string
	Extraction entity.ExtractionMetadata
	ChunkCount int
}

// DocumentRegistry is the catalog of ingested documents. FindByID returns
// (nil, nil) when the id is unknown.
type DocumentRegistry interface {
	Save(ctx context.Context, rec *DocumentRecord) error
	FindByID(ctx context.Context, id string) (*DocumentRecord, error)
	List(ctx context.Context) ([]*DocumentRecord, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
