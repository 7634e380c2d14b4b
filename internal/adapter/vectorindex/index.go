package vectorindex

import (
	"context"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/entity"
)

// Record is one stored chunk: its id, embedding, raw content and metadata.
type Record struct {
	ID      string
	Vector  []float32
	Content string
	Meta    entity.ChunkMetadata
}

// Match is a query hit. Distance is cosine distance in [0,2]; lower is closer.
type Match struct {
	Record
	Distance float64
}

// Filter restricts an operation to chunks owned by the given document ids.
// A nil filter (or empty id list) matches everything.
type Filter struct {
	DocumentIDs []string
}

func (f *Filter) matches(docID string) bool {
	if f == nil || len(f.DocumentIDs) == 0 {
		return true
	}
	for _, id := range f.DocumentIDs {
		if id == docID {
			return true
		}
	}
	return false
}

// Allows reports whether a record with the given document id passes the filter.
func (f *Filter) Allows(docID string) bool { return f.matches(docID) }

// Index is the nearest-neighbor store consumed by the vector store adapter.
// Implementations must rank Query results by ascending cosine distance.
type Index interface {
	Upsert(ctx context.Context, records []Record) error
	Query(ctx context.Context, vector []float32, topK int, filter *Filter) ([]Match, error)
	Fetch(ctx context.Context, filter *Filter) ([]Record, error)
	Delete(ctx context.Context, ids []string) error
	UpdateMetadata(ctx context.Context, ids []string, patch map[string]string) error
	Count(ctx context.Context) (int, error)
}
