package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorindex"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/pkg/logger"
)

type EmbeddingService interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// Store pairs the embedding service with a nearest-neighbor index and speaks
// in chunks instead of raw vectors.
type Store struct {
	embedder EmbeddingService
	index    vectorindex.Index
	log      *logger.Logger
}

func New(embedder EmbeddingService, index vectorindex.Index, log *logger.Logger) *Store {
	return &Store{
		embedder: embedder,
		index:    index,
		log:      log.With("component", "vectorstore"),
	}
}

// Insert embeds all chunk contents in one batch and upserts them under ids of
// the form {documentID}_{chunkIndex}. There is no partial-chunk recovery: on
// any failure the caller must treat the whole document as uningested.
func (s *Store) Insert(ctx context.Context, documentID string, chunks []entity.Chunk, filename string) error {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		s.log.Error("failed to embed chunks", "documentId", documentID, "error", err)
		return err
	}

	now := time.Now()
	records := make([]vectorindex.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = vectorindex.Record{
			ID:      fmt.Sprintf("%s_%d", documentID, chunk.Index),
			Vector:  vectors[i],
			Content: chunk.Content,
			Meta: entity.ChunkMetadata{
				DocumentID:  documentID,
				Filename:    filename,
				ChunkIndex:  chunk.Index,
				StartChar:   chunk.StartChar,
				EndChar:     chunk.EndChar,
				TotalChunks: chunk.TotalChunks,
				CreatedAt:   now,
			},
		}
	}

	if err := s.index.Upsert(ctx, records); err != nil {
		s.log.Error("failed to upsert chunks", "documentId", documentID, "error", err)
		return err
	}
	return nil
}

// Search embeds the query and returns up to topK chunks ranked by descending
// similarity. Scores are derived from cosine distance and clamped to [0,1].
func (s *Store) Search(ctx context.Context, query string, documentIDs []string, topK int) ([]entity.RetrievedChunk, error) {
	vectors, err := s.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		s.log.Error("failed to embed query", "error", err)
		return nil, err
	}

	var filter *vectorindex.Filter
	if len(documentIDs) > 0 {
		filter = &vectorindex.Filter{DocumentIDs: documentIDs}
	}

	matches, err := s.index.Query(ctx, vectors[0], topK, filter)
	if err != nil {
		s.log.Error("similarity query failed", "error", err)
		return nil, err
	}

	chunks := make([]entity.RetrievedChunk, len(matches))
	for i, m := range matches {
		chunks[i] = entity.RetrievedChunk{
			DocumentID: m.Meta.DocumentID,
			Filename:   m.Meta.Filename,
			Content:    m.Content,
			ChunkIndex: m.Meta.ChunkIndex,
			PageNumber: m.Meta.PageNumber,
			Similarity: clampScore(1 - m.Distance),
		}
	}
	return chunks, nil
}

// FetchByDocument returns all of a document's chunks sorted by chunk index.
func (s *Store) FetchByDocument(ctx context.Context, documentID string) ([]entity.RetrievedChunk, error) {
	records, err := s.index.Fetch(ctx, &vectorindex.Filter{DocumentIDs: []string{documentID}})
	if err != nil {
		s.log.Error("failed to fetch chunks", "documentId", documentID, "error", err)
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Meta.ChunkIndex < records[j].Meta.ChunkIndex
	})

	chunks := make([]entity.RetrievedChunk, len(records))
	for i, rec := range records {
		chunks[i] = entity.RetrievedChunk{
			DocumentID: rec.Meta.DocumentID,
			Filename:   rec.Meta.Filename,
			Content:    rec.Content,
			ChunkIndex: rec.Meta.ChunkIndex,
			PageNumber: rec.Meta.PageNumber,
		}
	}
	return chunks, nil
}

// DeleteByDocument removes every chunk of the document. Nothing matching is
// treated as success so the operation is idempotent.
func (s *Store) DeleteByDocument(ctx context.Context, documentID string) error {
	records, err := s.index.Fetch(ctx, &vectorindex.Filter{DocumentIDs: []string{documentID}})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	if err := s.index.Delete(ctx, ids); err != nil {
		s.log.Error("failed to delete chunks", "documentId", documentID, "error", err)
		return err
	}
	return nil
}

// PatchMetadata merges the given keys into the extra metadata of all chunks
// belonging to the document.
func (s *Store) PatchMetadata(ctx context.Context, documentID string, patch map[string]string) error {
	records, err := s.index.Fetch(ctx, &vectorindex.Filter{DocumentIDs: []string{documentID}})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return s.index.UpdateMetadata(ctx, ids, patch)
}

func (s *Store) Stats(ctx context.Context) (entity.IndexStats, error) {
	count, err := s.index.Count(ctx)
	if err != nil {
		return entity.IndexStats{}, err
	}

	records, err := s.index.Fetch(ctx, nil)
	if err != nil {
		return entity.IndexStats{}, err
	}
	unique := make(map[string]struct{}, len(records))
	for _, rec := range records {
		unique[rec.Meta.DocumentID] = struct{}{}
	}

	return entity.IndexStats{
		TotalChunks:     count,
		UniqueDocuments: len(unique),
		EmbeddingModel:  s.embedder.Model(),
	}, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
