package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Options selects and configures a backend.
type Options struct {
	Backend      string // empty means infer from DatabaseURL
	DatabaseURL  string
	DatabaseName string
	DataDir      string
}

// New creates a Store based on the backend name.
//
// Supported backends:
//
//	"mongo"    - MongoDB at DatabaseURL
//	"postgres" - PostgreSQL at DatabaseURL, documents as jsonb
//	"sqlite"   - SQLite at DatabaseURL (sqlite://path) or DataDir/study.db
//	"json"     - JSON files in DataDir (default without DatabaseURL)
//	"memory"   - In-memory (ephemeral, for testing)
func New(ctx context.Context, opts Options) (Store, error) {
	backend := opts.Backend
	if backend == "" {
		backend = InferBackend(opts.DatabaseURL)
	}
	switch backend {
	case "mongo":
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("backend %q requires DATABASE_URL", backend)
		}
		return nonNil(NewMongoStore(ctx, opts.DatabaseURL, opts.DatabaseName))
	case "postgres":
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("backend %q requires DATABASE_URL", backend)
		}
		return nonNil(NewPostgresStore(ctx, opts.DatabaseURL, opts.DatabaseName))
	case "sqlite":
		path := strings.TrimPrefix(opts.DatabaseURL, "sqlite://")
		if path == "" {
			path = filepath.Join(opts.DataDir, "study.db")
		}
		return nonNil(NewSqliteStore(path))
	case "json":
		return nonNil(NewJsonFileStore(opts.DataDir))
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: mongo, postgres, sqlite, json, memory)", backend)
	}
}

// nonNil keeps a failed constructor from yielding a non-nil Store holding a nil pointer.
func nonNil(s Store, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// InferBackend picks a backend name from a connection URL.
func InferBackend(url string) string {
	switch {
	case url == "":
		return "json"
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return "mongo"
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(url, "sqlite://"), strings.HasSuffix(url, ".db"):
		return "sqlite"
	default:
		return "mongo"
	}
}
