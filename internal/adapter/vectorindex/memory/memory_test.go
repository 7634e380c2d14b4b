package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorindex"
	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
)

func seedIndex(t *testing.T) *Index {
	t.Helper()
	idx := New()
	err := idx.Upsert(context.Background(), []vectorindex.Record{
		{ID: "doc1_0", Vector: []float32{1, 0, 0}, Content: "alpha", Meta: entity.ChunkMetadata{DocumentID: "doc1", ChunkIndex: 0}},
		{ID: "doc1_1", Vector: []float32{0.9, 0.1, 0}, Content: "beta", Meta: entity.ChunkMetadata{DocumentID: "doc1", ChunkIndex: 1}},
		{ID: "doc2_0", Vector: []float32{0, 1, 0}, Content: "gamma", Meta: entity.ChunkMetadata{DocumentID: "doc2", ChunkIndex: 0}},
	})
	require.NoError(t, err)
	return idx
}

func TestQueryRanksByDistance(t *testing.T) {
	idx := seedIndex(t)

	matches, err := idx.Query(context.Background(), []float32{1, 0, 0}, 3, nil)

	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "doc1_0", matches[0].ID)
	assert.InDelta(t, 0, matches[0].Distance, 1e-6)
	assert.Equal(t, "doc1_1", matches[1].ID)
	assert.Equal(t, "doc2_0", matches[2].ID)
	assert.LessOrEqual(t, matches[0].Distance, matches[1].Distance)
	assert.LessOrEqual(t, matches[1].Distance, matches[2].Distance)
}

func TestQueryRespectsTopK(t *testing.T) {
	idx := seedIndex(t)

	matches, err := idx.Query(context.Background(), []float32{1, 0, 0}, 1, nil)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc1_0", matches[0].ID)
}

func TestQueryFilterByDocument(t *testing.T) {
	idx := seedIndex(t)

	matches, err := idx.Query(context.Background(), []float32{1, 0, 0}, 10, &vectorindex.Filter{DocumentIDs: []string{"doc2"}})

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc2_0", matches[0].ID)
}

func TestUpsertOverwritesByID(t *testing.T) {
	idx := seedIndex(t)

	err := idx.Upsert(context.Background(), []vectorindex.Record{
		{ID: "doc1_0", Vector: []float32{0, 0, 1}, Content: "rewritten", Meta: entity.ChunkMetadata{DocumentID: "doc1", ChunkIndex: 0}},
	})
	require.NoError(t, err)

	count, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	matches, err := idx.Query(context.Background(), []float32{0, 0, 1}, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "rewritten", matches[0].Content)
}

func TestFetchAndDelete(t *testing.T) {
	idx := seedIndex(t)
	ctx := context.Background()

	records, err := idx.Fetch(ctx, &vectorindex.Filter{DocumentIDs: []string{"doc1"}})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.NoError(t, idx.Delete(ctx, []string{"doc1_0", "doc1_1"}))

	records, err = idx.Fetch(ctx, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "doc2_0", records[0].ID)

	// deleting unknown ids is a no-op
	require.NoError(t, idx.Delete(ctx, []string{"doc1_0", "nope"}))
}

func TestUpdateMetadataMergesExtra(t *testing.T) {
	idx := seedIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.UpdateMetadata(ctx, []string{"doc1_0"}, map[string]string{"tag": "v1"}))
	require.NoError(t, idx.UpdateMetadata(ctx, []string{"doc1_0"}, map[string]string{"owner": "alice"}))

	records, err := idx.Fetch(ctx, &vectorindex.Filter{DocumentIDs: []string{"doc1"}})
	require.NoError(t, err)
	for _, rec := range records {
		if rec.ID != "doc1_0" {
			assert.Nil(t, rec.Meta.Extra)
			continue
		}
		assert.Equal(t, map[string]string{"tag": "v1", "owner": "alice"}, rec.Meta.Extra)
	}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{0, 0}), "zero vector has no direction")
	assert.Zero(t, cosineSimilarity([]float32{1}, []float32{1, 2}), "mismatched dimensions")
}
