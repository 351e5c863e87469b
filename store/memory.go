package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps everything in memory. Data is lost on restart.
// Safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Document),
	}
}

func (m *MemoryStore) Insert(_ context.Context, collection string, doc Document) (string, error) {
	id := NewID().Hex()
	stored, err := normalize(doc)
	if err != nil {
		return "", err
	}
	if stored == nil {
		stored = Document{}
	}
	stored[IDField] = id

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], stored)
	return id, nil
}

func (m *MemoryStore) Find(_ context.Context, collection string, filter Filter) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := []Document{}
	for _, doc := range m.collections[collection] {
		if !matches(doc, filter) {
			continue
		}
		cp, err := normalize(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, cp)
	}
	return result, nil
}

func (m *MemoryStore) FindByID(_ context.Context, collection, id string) (Document, error) {
	if _, err := ParseID(id); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.collections[collection] {
		if doc[IDField] == id {
			return normalize(doc)
		}
	}
	return nil, nil
}

func (m *MemoryStore) ListCollections(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for name, docs := range m.collections {
		if len(docs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Close() error { return nil }
