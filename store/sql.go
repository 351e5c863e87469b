package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLStore keeps every collection in a single documents table, one JSON
// payload per row. The seq column preserves insertion order.
//
// Tables:
//
//	documents(seq, collection, id, data)  UNIQUE (collection, id)
type SQLStore struct {
	db   *sqlx.DB
	name string

	// containment is set when the backend can filter on JSON server side
	// (PostgreSQL jsonb @>). Otherwise filters are applied after loading.
	containment bool
}

type documentRow struct {
	ID   string `db:"id"`
	Data string `db:"data"`
}

// NewSqliteStore opens (and creates if needed) a SQLite database at dbPath.
func NewSqliteStore(dbPath string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		UNIQUE (collection, id)
	)`); err != nil {
		db.Close()
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(dbPath), filepath.Ext(dbPath))
	return &SQLStore{db: db, name: name}, nil
}

// NewPostgresStore connects to PostgreSQL using a postgres:// URL and keeps
// documents as jsonb.
func NewPostgresStore(ctx context.Context, url, name string) (*SQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (
		seq BIGSERIAL PRIMARY KEY,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data JSONB NOT NULL,
		UNIQUE (collection, id)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &SQLStore{db: db, name: name, containment: true}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	id := NewID().Hex()
	stored, err := normalize(doc)
	if err != nil {
		return "", err
	}
	if stored == nil {
		stored = Document{}
	}
	stored[IDField] = id
	b, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}
	query := s.db.Rebind("INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)")
	if _, err := s.db.ExecContext(ctx, query, collection, id, string(b)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return id, nil
}

func (s *SQLStore) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	query := "SELECT id, data FROM documents WHERE collection = ?"
	args := []any{collection}
	if s.containment && len(filter) > 0 {
		b, err := json.Marshal(filter)
		if err != nil {
			return nil, err
		}
		query += " AND data @> CAST(? AS jsonb)"
		args = append(args, string(b))
	}
	query += " ORDER BY seq"

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	result := make([]Document, 0, len(rows))
	for _, row := range rows {
		var doc Document
		if err := json.Unmarshal([]byte(row.Data), &doc); err != nil {
			return nil, fmt.Errorf("%w: decode %s/%s: %w", ErrUnavailable, collection, row.ID, err)
		}
		if !s.containment && !matches(doc, filter) {
			continue
		}
		result = append(result, doc)
	}
	return result, nil
}

func (s *SQLStore) FindByID(ctx context.Context, collection, id string) (Document, error) {
	if _, err := ParseID(id); err != nil {
		return nil, err
	}
	var raw string
	err := s.db.GetContext(ctx, &raw,
		s.db.Rebind("SELECT data FROM documents WHERE collection = ? AND id = ?"),
		collection, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s/%s: %w", ErrUnavailable, collection, id, err)
	}
	return doc, nil
}

func (s *SQLStore) ListCollections(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names,
		"SELECT DISTINCT collection FROM documents ORDER BY collection",
	); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return names, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLStore) Name() string { return s.name }
