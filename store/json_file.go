package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// JsonFileStore stores each collection as a JSON array file on disk, in
// insertion order.
//
// Layout:
//
//	data_dir/
//	  lesson.json
//	  quizquestion.json
//	  progress.json
type JsonFileStore struct {
	mu  sync.RWMutex
	dir string
}

func NewJsonFileStore(dir string) (*JsonFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &JsonFileStore{dir: dir}, nil
}

func (s *JsonFileStore) collectionPath(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *JsonFileStore) loadCollection(collection string) ([]Document, error) {
	data, err := os.ReadFile(s.collectionPath(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return []Document{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrUnavailable, collection, err)
	}
	return docs, nil
}

func (s *JsonFileStore) saveCollection(collection string, docs []Document) error {
	b, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	// Collections are replaced atomically via rename.
	tmp := s.collectionPath(collection) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := os.Rename(tmp, s.collectionPath(collection)); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *JsonFileStore) Insert(_ context.Context, collection string, doc Document) (string, error) {
	id := NewID().Hex()
	stored, err := normalize(doc)
	if err != nil {
		return "", err
	}
	if stored == nil {
		stored = Document{}
	}
	stored[IDField] = id

	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.loadCollection(collection)
	if err != nil {
		return "", err
	}
	if err := s.saveCollection(collection, append(docs, stored)); err != nil {
		return "", err
	}
	return id, nil
}

func (s *JsonFileStore) Find(_ context.Context, collection string, filter Filter) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, err := s.loadCollection(collection)
	if err != nil {
		return nil, err
	}
	result := []Document{}
	for _, doc := range docs {
		if matches(doc, filter) {
			result = append(result, doc)
		}
	}
	return result, nil
}

func (s *JsonFileStore) FindByID(_ context.Context, collection, id string) (Document, error) {
	if _, err := ParseID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, err := s.loadCollection(collection)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc[IDField] == id {
			return doc, nil
		}
	}
	return nil, nil
}

func (s *JsonFileStore) ListCollections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func (s *JsonFileStore) Ping(context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *JsonFileStore) Name() string { return filepath.Base(s.dir) }

func (s *JsonFileStore) Close() error { return nil }
