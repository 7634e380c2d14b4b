package rag

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repomemory "github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/repository/memory"
	idxmemory "github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorindex/memory"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorstore"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/usecase/document"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/pkg/logger"
)

// fakeEmbedder produces deterministic bag-of-words vectors so texts sharing
// vocabulary rank as similar without any network calls.
type fakeEmbedder struct{}

func (fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 64)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			h := fnv.New32a()
			h.Write([]byte(word))
			vec[h.Sum32()%64]++
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] = float32(float64(vec[j]) / norm)
			}
		}
		out[i] = vec
	}
	return out, nil
}

func (fakeEmbedder) Model() string { return "fake-embedder" }

type fakeCompletion struct {
	mu      sync.Mutex
	replies []string
	prompts []string
	err     error
}

func (f *fakeCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) > 0 {
		reply := f.replies[0]
		f.replies = f.replies[1:]
		return reply, nil
	}
	return "default answer", nil
}

func (f *fakeCompletion) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string][]byte)}
}

func (f *fakeFileStore) Save(data []byte, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := "uploads/" + filename
	f.files[path] = data
	return path, nil
}

func (f *fakeFileStore) Delete(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; !ok {
		return false
	}
	delete(f.files, path)
	return true
}

func (f *fakeFileStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

type testEnv struct {
	uc         *RAGUsecase
	completion *fakeCompletion
	files      *fakeFileStore
}

func newTestEnv() *testEnv {
	log := logger.NewNop()
	completion := &fakeCompletion{}
	files := newFakeFileStore()
	uc := NewRAGUsecase(
		repomemory.NewDocumentRegistry(),
		repomemory.NewChatHistory(),
		vectorstore.New(fakeEmbedder{}, idxmemory.New(), log),
		completion,
		files,
		document.NewExtractor(log),
		document.NewChunker(200, 40),
		5,
		log,
	)
	return &testEnv{uc: uc, completion: completion, files: files}
}

func (e *testEnv) ingest(t *testing.T, content, filename string) *entity.Document {
	t.Helper()
	doc, err := e.uc.IngestDocument(context.Background(), []byte(content), filename, "text/plain")
	require.NoError(t, err)
	return doc
}

func TestIngestDocumentSuccess(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	content := "Cats are great pets. Dogs are loyal companions."

	doc := env.ingest(t, content, "pets.txt")

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "pets.txt", doc.Filename)
	assert.Equal(t, entity.StatusProcessed, doc.Status)
	assert.Equal(t, int64(len(content)), doc.Size)
	assert.Equal(t, 8, doc.WordCount)
	assert.GreaterOrEqual(t, doc.TotalChunks, 1)
	assert.Equal(t, 1, env.files.count())

	found, err := env.uc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, doc.ID, found.ID)

	stats, err := env.uc.SystemStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDocuments)
	assert.Equal(t, doc.TotalChunks, stats.TotalChunks)
	assert.Equal(t, "fake-embedder", stats.EmbeddingModel)
}

func TestIngestUnsupportedFileType(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.IngestDocument(context.Background(), []byte("bytes"), "image.png", "image/png")

	require.ErrorIs(t, err, entity.ErrUnsupportedFileType)
	assert.Zero(t, env.files.count(), "saved file must be cleaned up")
}

func TestIngestEmptyDocument(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.IngestDocument(context.Background(), []byte("   \n  "), "blank.txt", "text/plain")

	require.ErrorIs(t, err, entity.ErrExtraction)
	assert.Zero(t, env.files.count(), "saved file must be cleaned up")
}

func TestAskQuestionNoDocuments(t *testing.T) {
	env := newTestEnv()

	resp := env.uc.AskQuestion(context.Background(), "What is in the documents?", nil, 0)

	require.NotNil(t, resp)
	assert.Equal(t, noRelevantInfoAnswer, resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.Zero(t, env.completion.callCount(), "no completion call without retrieved context")
}

func TestAskQuestionScopedToDocument(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	pets := env.ingest(t, "Cats and dogs are common household pets. Cats sleep most of the day.", "pets.txt")
	env.ingest(t, "Quarterly revenue exceeded forecasts thanks to strong subscriptions.", "finance.txt")

	env.completion.replies = []string{"Cats sleep a lot."}
	resp := env.uc.AskQuestion(ctx, "How much do cats sleep?", []string{pets.ID}, 0)

	assert.Equal(t, "Cats sleep a lot.", resp.Answer)
	require.NotEmpty(t, resp.Sources)
	for _, src := range resp.Sources {
		assert.Equal(t, pets.ID, src.DocumentID)
		assert.Equal(t, "pets.txt", src.DocumentName)
		assert.NotEmpty(t, src.Excerpt)
	}
	assert.Equal(t, []string{pets.ID}, resp.DocumentIDs)
	assert.GreaterOrEqual(t, resp.ResponseTime.Nanoseconds(), int64(0))

	history, err := env.uc.GetChatHistory(ctx, pets.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "How much do cats sleep?", history[0].Question)
}

func TestAskQuestionUnscopedSkipsHistory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	doc := env.ingest(t, "Cats and dogs are common household pets.", "pets.txt")

	resp := env.uc.AskQuestion(ctx, "Tell me about pets", nil, 0)
	assert.NotEqual(t, noRelevantInfoAnswer, resp.Answer)

	history, err := env.uc.GetChatHistory(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "unscoped questions are not logged per document")
}

func TestAskQuestionRespectsMaxSources(t *testing.T) {
	env := newTestEnv()
	env.ingest(t, strings.Repeat("Cats and dogs and birds make wonderful household pets for families. ", 20), "pets.txt")

	resp := env.uc.AskQuestion(context.Background(), "pets", nil, 1)

	assert.Len(t, resp.Sources, 1)
}

func TestAskQuestionCompletionFailureDegrades(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	doc := env.ingest(t, "Cats and dogs are common household pets.", "pets.txt")

	env.completion.err = assert.AnError
	resp := env.uc.AskQuestion(ctx, "What pets?", []string{doc.ID}, 0)

	require.NotNil(t, resp)
	assert.Contains(t, resp.Answer, "I encountered an error while processing your question")
	assert.Empty(t, resp.Sources)

	history, err := env.uc.GetChatHistory(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "failed exchanges are not logged")
}

func TestSummarizeDocument(t *testing.T) {
	env := newTestEnv()
	doc := env.ingest(t, "A document about renewable energy and solar panels.", "energy.txt")

	env.completion.replies = []string{`SUMMARY: Solar energy overview.
KEY_POINTS:
- Panels are cheaper now
THEMES: energy, climate`}

	summary, err := env.uc.SummarizeDocument(context.Background(), doc.ID)

	require.NoError(t, err)
	assert.Equal(t, doc.ID, summary.DocumentID)
	assert.Equal(t, "Solar energy overview.", summary.Summary)
	assert.Equal(t, []string{"Panels are cheaper now"}, summary.KeyPoints)
	assert.Equal(t, []string{"energy", "climate"}, summary.Themes)
	assert.Equal(t, doc.WordCount, summary.WordCount)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestSummarizeUnknownDocument(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.SummarizeDocument(context.Background(), "missing-id")

	require.ErrorIs(t, err, entity.ErrNotFound)
	assert.Zero(t, env.completion.callCount())
}

func TestSummarizeCompletionFailure(t *testing.T) {
	env := newTestEnv()
	doc := env.ingest(t, "Some text worth summarizing.", "doc.txt")

	env.completion.err = assert.AnError
	_, err := env.uc.SummarizeDocument(context.Background(), doc.ID)

	require.ErrorIs(t, err, entity.ErrCompletion)
}

func TestCompareDocumentsRequiresTwo(t *testing.T) {
	env := newTestEnv()
	doc := env.ingest(t, "Only one document here.", "one.txt")

	_, err := env.uc.CompareDocuments(context.Background(), []string{doc.ID})

	require.ErrorIs(t, err, entity.ErrValidation)
	assert.Zero(t, env.completion.callCount(), "validation happens before any completion call")
}

func TestCompareDocumentsUnknownID(t *testing.T) {
	env := newTestEnv()
	doc := env.ingest(t, "Known document content.", "known.txt")

	_, err := env.uc.CompareDocuments(context.Background(), []string{doc.ID, "missing-id"})

	require.ErrorIs(t, err, entity.ErrNotFound)
	assert.Zero(t, env.completion.callCount())
}

func TestCompareDocuments(t *testing.T) {
	env := newTestEnv()
	a := env.ingest(t, "Revenue grew in Europe during the first quarter.", "q1.txt")
	b := env.ingest(t, "Revenue declined in Asia during the second quarter.", "q2.txt")

	env.completion.replies = []string{`SIMILARITIES:
- Both report revenue

DIFFERENCES:
- Opposite trends

COMMON_THEMES: revenue, quarters`}

	comparison, err := env.uc.CompareDocuments(context.Background(), []string{a.ID, b.ID})

	require.NoError(t, err)
	assert.Equal(t, []string{"Both report revenue"}, comparison.Similarities)
	assert.Equal(t, []string{"Opposite trends"}, comparison.Differences)
	assert.Equal(t, []string{"revenue", "quarters"}, comparison.CommonThemes)
	require.Len(t, comparison.Documents, 2)
	assert.Equal(t, a.ID, comparison.Documents[0].ID)
	assert.Equal(t, "q1.txt", comparison.Documents[0].Filename)
	assert.Equal(t, b.ID, comparison.Documents[1].ID)
}

func TestFindSimilarDocuments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	subject := env.ingest(t, "Cats dogs pets animals furry companions households.", "pets1.txt")
	kin := env.ingest(t, "Cats dogs pets animals playful companions families.", "pets2.txt")
	env.ingest(t, "Stocks bonds markets earnings dividends portfolios.", "finance.txt")

	similar, err := env.uc.FindSimilarDocuments(ctx, subject.ID, 3)

	require.NoError(t, err)
	require.NotEmpty(t, similar)
	for _, sim := range similar {
		assert.NotEqual(t, subject.ID, sim.DocumentID, "subject document must be excluded")
	}
	assert.Equal(t, kin.ID, similar[0].DocumentID, "document sharing vocabulary ranks first")
	assert.Greater(t, similar[0].AverageSimilarity, 0.0)
	assert.GreaterOrEqual(t, similar[0].MatchingChunks, 1)
	require.NotNil(t, similar[0].Document)
	assert.Equal(t, "pets2.txt", similar[0].Document.Filename)
	for i := 1; i < len(similar); i++ {
		assert.GreaterOrEqual(t, similar[i-1].AverageSimilarity, similar[i].AverageSimilarity)
	}
}

func TestFindSimilarDocumentsTopK(t *testing.T) {
	env := newTestEnv()
	subject := env.ingest(t, "Shared words appear in every document here.", "a.txt")
	env.ingest(t, "Shared words appear in every document indeed.", "b.txt")
	env.ingest(t, "Shared words appear in every document too.", "c.txt")

	similar, err := env.uc.FindSimilarDocuments(context.Background(), subject.ID, 1)

	require.NoError(t, err)
	assert.Len(t, similar, 1)
}

func TestFindSimilarUnknownDocument(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.FindSimilarDocuments(context.Background(), "missing-id", 3)

	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestDeleteDocumentCascades(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	doc := env.ingest(t, "Cats and dogs are common household pets.", "pets.txt")

	env.uc.AskQuestion(ctx, "What pets?", []string{doc.ID}, 0)
	history, err := env.uc.GetChatHistory(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	deleted, err := env.uc.DeleteDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	found, err := env.uc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	history, err = env.uc.GetChatHistory(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "chat history is removed with the document")

	stats, err := env.uc.SystemStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalChunks)
	assert.Zero(t, env.files.count())

	deleted, err = env.uc.DeleteDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete reports not found")
}

func TestListDocuments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.ingest(t, "First document content here.", "first.txt")
	env.ingest(t, "Second document content here.", "second.txt")

	docs, err := env.uc.ListDocuments(ctx)

	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestClearChatHistory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	doc := env.ingest(t, "Cats and dogs are common household pets.", "pets.txt")
	env.uc.AskQuestion(ctx, "What pets?", []string{doc.ID}, 0)

	require.NoError(t, env.uc.ClearChatHistory(ctx, doc.ID))

	history, err := env.uc.GetChatHistory(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
