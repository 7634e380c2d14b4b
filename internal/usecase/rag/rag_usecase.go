package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/repository"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/usecase/document"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/pkg/logger"
)

const (
	// chunks joined to stand in for a whole document in find-similar queries
	representativeChunks = 3
	sampleExcerptLimit   = 2
	defaultSimilarTopK   = 3
)

type VectorStore interface {
	Insert(ctx context.Context, documentID string, chunks []entity.Chunk, filename string) error
	Search(ctx context.Context, query string, documentIDs []string, topK int) ([]entity.RetrievedChunk, error)
	FetchByDocument(ctx context.Context, documentID string) ([]entity.RetrievedChunk, error)
	DeleteByDocument(ctx context.Context, documentID string) error
	Stats(ctx context.Context) (entity.IndexStats, error)
}

type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type FileStore interface {
	Save(data []byte, filename string) (string, error)
	Delete(path string) bool
}

type RAGUsecase struct {
	registry   repository.DocumentRegistry
	history    repository.ChatHistory
	vectors    VectorStore
	completion CompletionService
	files      FileStore
	extractor  *document.Extractor
	chunker    *document.Chunker
	maxSources int
	locks      *docLocks
	log        *logger.Logger
}

func NewRAGUsecase(
	registry repository.DocumentRegistry,
	history repository.ChatHistory,
	vectors VectorStore,
	completion CompletionService,
	files FileStore,
	extractor *document.Extractor,
	chunker *document.Chunker,
	maxSources int,
	log *logger.Logger,
) *RAGUsecase {
	if maxSources <= 0 {
		maxSources = 5
	}
	return &RAGUsecase{
		registry:   registry,
		history:    history,
		vectors:    vectors,
		completion: completion,
		files:      files,
		extractor:  extractor,
		chunker:    chunker,
		maxSources: maxSources,
		locks:      newDocLocks(),
		log:        log.With("component", "rag"),
	}
}

// IngestDocument runs the whole pipeline: save, extract, chunk, index,
// register. Any failure aborts the operation and nothing is registered.
func (uc *RAGUsecase) IngestDocument(ctx context.Context, data []byte, filename, contentType string) (*entity.Document, error) {
	documentID := uuid.New().String()
	unlock := uc.locks.lock(documentID)
	defer unlock()

	path, err := uc.files.Save(data, filename)
	if err != nil {
		uc.log.Error("failed to save uploaded file", "filename", filename, "error", err)
		return nil, err
	}

	text, meta, err := uc.extractor.Extract(data, filename)
	if err != nil {
		uc.cleanupFile(path)
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		uc.cleanupFile(path)
		uc.log.Error("extraction produced no text", "documentId", documentID, "filename", filename)
		return nil, fmt.Errorf("%w: %s", entity.ErrExtraction, filename)
	}

	chunks := uc.chunker.ChunkText(text, filename)
	if len(chunks) == 0 {
		uc.cleanupFile(path)
		uc.log.Error("chunking produced no chunks", "documentId", documentID, "filename", filename)
		return nil, fmt.Errorf("%w: %s", entity.ErrNoChunks, filename)
	}

	if err := uc.vectors.Insert(ctx, documentID, chunks, filename); err != nil {
		uc.cleanupFile(path)
		return nil, fmt.Errorf("%w: %w", entity.ErrIndex, err)
	}

	wordCount := meta.WordCount
	if wordCount == 0 {
		wordCount = len(strings.Fields(text))
	}
	doc := &entity.Document{
		ID:          documentID,
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadDate:  time.Now(),
		PageCount:   meta.PageCount,
		WordCount:   wordCount,
		TotalChunks: len(chunks),
		Status:      entity.StatusProcessed,
	}
	if err := uc.registry.Save(ctx, &repository.DocumentRecord{
		Document:   doc,
		FilePath:   path,
		Text:       text,
		Extraction: meta,
		ChunkCount: len(chunks),
	}); err != nil {
		uc.cleanupFile(path)
		return nil, err
	}

	uc.log.Info("document ingested", "documentId", documentID, "filename", filename, "chunks", len(chunks))
	return doc, nil
}

// AskQuestion answers a question from retrieved context. It always returns a
// response object: retrieval or completion failures degrade into an
// apologetic answer instead of propagating.
func (uc *RAGUsecase) AskQuestion(ctx context.Context, question string, documentIDs []string, maxSources int) *entity.ChatResponse {
	start := time.Now()
	if maxSources <= 0 {
		maxSources = uc.maxSources
	}
	if len(documentIDs) > 0 {
		unlock := uc.locks.rlock(documentIDs...)
		defer unlock()
	}

	results, err := uc.vectors.Search(ctx, question, documentIDs, maxSources)
	if err != nil {
		uc.log.Error("search failed during ask", "documentIds", documentIDs, "error", err)
		return uc.failureResponse(question, documentIDs, start, err)
	}
	if len(results) == 0 {
		return &entity.ChatResponse{
			Question:     question,
			Answer:       noRelevantInfoAnswer,
			Sources:      []entity.SourceAttribution{},
			ResponseTime: time.Since(start),
			Timestamp:    time.Now(),
			DocumentIDs:  documentIDs,
		}
	}

	contextParts := make([]string, len(results))
	sources := make([]entity.SourceAttribution, len(results))
	for i, chunk := range results {
		contextParts[i] = fmt.Sprintf("From %s:\n%s", chunk.Filename, chunk.Content)
		sources[i] = entity.SourceAttribution{
			DocumentID:     chunk.DocumentID,
			DocumentName:   chunk.Filename,
			PageNumber:     chunk.PageNumber,
			Excerpt:        excerpt(chunk.Content),
			RelevanceScore: chunk.Similarity,
		}
	}

	answer, err := uc.completion.Complete(ctx, buildAnswerPrompt(question, strings.Join(contextParts, "\n\n---\n\n")))
	if err != nil {
		uc.log.Error("completion failed during ask", "documentIds", documentIDs, "error", err)
		return uc.failureResponse(question, documentIDs, start, err)
	}

	resp := &entity.ChatResponse{
		Question:     question,
		Answer:       answer,
		Sources:      sources,
		ResponseTime: time.Since(start),
		Timestamp:    time.Now(),
		DocumentIDs:  documentIDs,
	}

	// a multi-document question belongs to every scoped document's log
	for _, id := range documentIDs {
		if err := uc.history.Append(ctx, id, resp); err != nil {
			uc.log.Error("failed to append chat history", "documentId", id, "error", err)
		}
	}
	return resp
}

func (uc *RAGUsecase) failureResponse(question string, documentIDs []string, start time.Time, err error) *entity.ChatResponse {
	return &entity.ChatResponse{
		Question:     question,
		Answer:       fmt.Sprintf("I encountered an error while processing your question: %v", err),
		Sources:      []entity.SourceAttribution{},
		ResponseTime: time.Since(start),
		Timestamp:    time.Now(),
		DocumentIDs:  documentIDs,
	}
}

func (uc *RAGUsecase) SummarizeDocument(ctx context.Context, documentID string) (*entity.DocumentSummary, error) {
	unlock := uc.locks.rlock(documentID)
	defer unlock()

	rec, err := uc.registry.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, documentID)
	}

	raw, err := uc.completion.Complete(ctx, buildSummaryPrompt(rec.Text))
	if err != nil {
		uc.log.Error("summary generation failed", "documentId", documentID, "error", err)
		return nil, fmt.Errorf("%w: %w", entity.ErrCompletion, err)
	}

	parsed := parseSummaryResponse(raw)
	return &entity.DocumentSummary{
		DocumentID:  documentID,
		Summary:     parsed.Summary,
		KeyPoints:   parsed.KeyPoints,
		Themes:      parsed.Themes,
		WordCount:   rec.Document.WordCount,
		GeneratedAt: time.Now(),
	}, nil
}

func (uc *RAGUsecase) CompareDocuments(ctx context.Context, documentIDs []string) (*entity.DocumentComparison, error) {
	if len(documentIDs) < 2 {
		return nil, fmt.Errorf("%w: at least 2 documents are required for comparison", entity.ErrValidation)
	}

	unlock := uc.locks.rlock(documentIDs...)
	defer unlock()

	names := make([]string, 0, len(documentIDs))
	contents := make([]string, 0, len(documentIDs))
	compared := make([]entity.ComparedDocument, 0, len(documentIDs))
	for _, id := range documentIDs {
		rec, err := uc.registry.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, id)
		}
		names = append(names, rec.Document.Filename)
		contents = append(contents, rec.Text)
		compared = append(compared, entity.ComparedDocument{
			ID:        id,
			Filename:  rec.Document.Filename,
			WordCount: rec.Document.WordCount,
		})
	}

	raw, err := uc.completion.Complete(ctx, buildComparePrompt(names, contents))
	if err != nil {
		uc.log.Error("comparison failed", "documentIds", documentIDs, "error", err)
		return nil, fmt.Errorf("%w: %w", entity.ErrCompletion, err)
	}

	parsed := parseComparisonResponse(raw)
	return &entity.DocumentComparison{
		Similarities: parsed.Similarities,
		Differences:  parsed.Differences,
		CommonThemes: parsed.CommonThemes,
		Documents:    compared,
	}, nil
}

// FindSimilarDocuments ranks other documents by the mean similarity of their
// chunks against the subject document's representative text.
func (uc *RAGUsecase) FindSimilarDocuments(ctx context.Context, documentID string, topK int) ([]entity.SimilarDocument, error) {
	if topK <= 0 {
		topK = defaultSimilarTopK
	}

	unlock := uc.locks.rlock(documentID)
	defer unlock()

	rec, err := uc.registry.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, documentID)
	}

	chunks, err := uc.vectors.FetchByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrIndex, err)
	}
	if len(chunks) == 0 {
		return []entity.SimilarDocument{}, nil
	}

	n := representativeChunks
	if n > len(chunks) {
		n = len(chunks)
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = chunks[i].Content
	}

	// over-fetch to compensate for the subject document matching itself
	results, err := uc.vectors.Search(ctx, strings.Join(parts, " "), nil, topK*3)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrIndex, err)
	}

	type candidate struct {
		filename   string
		scores     []float64
		excerpts   []string
		chunkCount int
	}
	byDoc := make(map[string]*candidate)
	order := make([]string, 0)
	for _, chunk := range results {
		if chunk.DocumentID == documentID {
			continue
		}
		c, ok := byDoc[chunk.DocumentID]
		if !ok {
			c = &candidate{filename: chunk.Filename}
			byDoc[chunk.DocumentID] = c
			order = append(order, chunk.DocumentID)
		}
		c.scores = append(c.scores, chunk.Similarity)
		c.chunkCount++
		if len(c.excerpts) < sampleExcerptLimit {
			c.excerpts = append(c.excerpts, excerpt(chunk.Content))
		}
	}

	similar := make([]entity.SimilarDocument, 0, len(byDoc))
	for _, id := range order {
		c := byDoc[id]
		var sum float64
		for _, s := range c.scores {
			sum += s
		}
		similar = append(similar, entity.SimilarDocument{
			DocumentID:        id,
			Filename:          c.filename,
			AverageSimilarity: sum / float64(len(c.scores)),
			MatchingChunks:    c.chunkCount,
			SampleExcerpts:    c.excerpts,
		})
	}

	sort.Slice(similar, func(i, j int) bool {
		return similar[i].AverageSimilarity > similar[j].AverageSimilarity
	})
	if topK < len(similar) {
		similar = similar[:topK]
	}

	// enrich from the registry; candidates deleted in the meantime are dropped
	enriched := make([]entity.SimilarDocument, 0, len(similar))
	for _, sim := range similar {
		candRec, err := uc.registry.FindByID(ctx, sim.DocumentID)
		if err != nil {
			return nil, err
		}
		if candRec == nil {
			continue
		}
		sim.Document = candRec.Document
		enriched = append(enriched, sim)
	}
	return enriched, nil
}

// DeleteDocument removes a document and everything derived from it. An
// unknown id is a negative result, not an error. The registry is
// authoritative: chunk or file deletion failures are logged and do not block
// registry removal.
func (uc *RAGUsecase) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	unlock := uc.locks.lock(documentID)
	defer unlock()

	rec, err := uc.registry.FindByID(ctx, documentID)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	if err := uc.vectors.DeleteByDocument(ctx, documentID); err != nil {
		uc.log.Error("failed to delete chunks", "documentId", documentID, "error", err)
	}
	if rec.FilePath != "" && !uc.files.Delete(rec.FilePath) {
		uc.log.Warn("failed to delete stored file", "documentId", documentID, "path", rec.FilePath)
	}
	if err := uc.registry.Delete(ctx, documentID); err != nil {
		return false, err
	}
	if err := uc.history.DeleteByDocument(ctx, documentID); err != nil {
		uc.log.Error("failed to delete chat history", "documentId", documentID, "error", err)
	}

	uc.log.Info("document deleted", "documentId", documentID)
	return true, nil
}

func (uc *RAGUsecase) GetDocument(ctx context.Context, documentID string) (*entity.Document, error) {
	rec, err := uc.registry.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return rec.Document, nil
}

func (uc *RAGUsecase) ListDocuments(ctx context.Context) ([]*entity.Document, error) {
	recs, err := uc.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]*entity.Document, len(recs))
	for i, rec := range recs {
		docs[i] = rec.Document
	}
	return docs, nil
}

func (uc *RAGUsecase) GetChatHistory(ctx context.Context, documentID string) ([]*entity.ChatResponse, error) {
	return uc.history.FindByDocument(ctx, documentID)
}

func (uc *RAGUsecase) ClearChatHistory(ctx context.Context, documentID string) error {
	return uc.history.DeleteByDocument(ctx, documentID)
}

func (uc *RAGUsecase) SystemStats(ctx context.Context) (*entity.SystemStats, error) {
	idxStats, err := uc.vectors.Stats(ctx)
	if err != nil {
		uc.log.Error("failed to read index stats", "error", err)
		return nil, fmt.Errorf("%w: %w", entity.ErrIndex, err)
	}
	totalDocs, err := uc.registry.Count(ctx)
	if err != nil {
		return nil, err
	}
	conversations, err := uc.history.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	return &entity.SystemStats{
		TotalDocuments:     totalDocs,
		TotalChunks:        idxStats.TotalChunks,
		TotalConversations: conversations,
		EmbeddingModel:     idxStats.EmbeddingModel,
	}, nil
}

func (uc *RAGUsecase) cleanupFile(path string) {
	if path != "" && !uc.files.Delete(path) {
		uc.log.Warn("failed to remove file after aborted ingest", "path", path)
	}
}
