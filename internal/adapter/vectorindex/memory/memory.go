package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/adapter/vectorindex"
)

// Index is a brute-force in-memory nearest-neighbor store. It is the default
// backend and the one the test suite runs against.
type Index struct {
	mu      sync.RWMutex
	records map[string]vectorindex.Record
}

func New() *Index {
	return &Index{records: make(map[string]vectorindex.Record)}
}

func (idx *Index) Upsert(ctx context.Context, records []vectorindex.Record) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, rec := range records {
		idx.records[rec.ID] = rec
	}
	return nil
}

func (idx *Index) Query(ctx context.Context, vector []float32, topK int, filter *vectorindex.Filter) ([]vectorindex.Match, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if topK <= 0 {
		topK = 5
	}

	matches := make([]vectorindex.Match, 0, len(idx.records))
	for _, rec := range idx.records {
		if !filter.Allows(rec.Meta.DocumentID) {
			continue
		}
		matches = append(matches, vectorindex.Match{
			Record:   rec,
			Distance: 1 - cosineSimilarity(vector, rec.Vector),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

func (idx *Index) Fetch(ctx context.Context, filter *vectorindex.Filter) ([]vectorindex.Record, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []vectorindex.Record
	for _, rec := range idx.records {
		if filter.Allows(rec.Meta.DocumentID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (idx *Index) Delete(ctx context.Context, ids []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, id := range ids {
		delete(idx.records, id)
	}
	return nil
}

func (idx *Index) UpdateMetadata(ctx context.Context, ids []string, patch map[string]string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, id := range ids {
		rec, ok := idx.records[id]
		if !ok {
			continue
		}
		if rec.Meta.Extra == nil {
			rec.Meta.Extra = make(map[string]string, len(patch))
		}
		for k, v := range patch {
			rec.Meta.Extra[k] = v
		}
		idx.records[id] = rec
	}
	return nil
}

func (idx *Index) Count(ctx context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records), nil
}

// cosineSimilarity returns a value in [-1,1]; 1 means identical direction.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
