package rag

import (
	"sort"
	"sync"
)

// docLocks hands out one RWMutex per document id so reads can run alongside
// each other while delete/ingest get exclusive access. Entries are never
// evicted; the map is bounded by the number of document ids ever seen.
type docLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func newDocLocks() *docLocks {
	return &docLocks{locks: make(map[string]*sync.RWMutex)}
}

func (d *docLocks) get(id string) *sync.RWMutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[id]
	if !ok {
		l = &sync.RWMutex{}
		d.locks[id] = l
	}
	return l
}

// ordered returns the deduplicated ids in a stable order so multi-document
// operations always acquire locks in the same sequence.
func ordered(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (d *docLocks) lock(ids ...string) func() {
	acquired := ordered(ids)
	for _, id := range acquired {
		d.get(id).Lock()
	}
	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			d.get(acquired[i]).Unlock()
		}
	}
}

func (d *docLocks) rlock(ids ...string) func() {
	acquired := ordered(ids)
	for _, id := range acquired {
		d.get(id).RLock()
	}
	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			d.get(acquired[i]).RUnlock()
		}
	}
}
