package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Onkarmundhe/Intelligent-Document-Analysis-System/internal/domain/repository"
)

type documentRegistry struct {
	mu   sync.RWMutex
	docs map[string]*repository.DocumentRecord
}

func NewDocumentRegistry() repository.DocumentRegistry {
	return &documentRegistry{docs: make(map[string]*repository.DocumentRecord)}
}

func (r *documentRegistry) Save(ctx context.Context, rec *repository.DocumentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[rec.Document.ID] = rec
	return nil
}

func (r *documentRegistry) FindByID(ctx context.Context, id string) (*repository.DocumentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

// List returns records ordered by upload date, newest first.
func (r *documentRegistry) List(ctx context.Context) ([]*repository.DocumentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]*repository.DocumentRecord, 0, len(r.docs))
	for _, rec := range r.docs {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Document.UploadDate.After(recs[j].Document.UploadDate)
	})
	return recs, nil
}

func (r *documentRegistry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *documentRegistry) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs), nil
}
