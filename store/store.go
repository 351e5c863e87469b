// Package store defines the document store interface and its backends.
package store

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable wraps every connection or query failure of a backend.
	ErrUnavailable = errors.New("store unavailable")

	// ErrInvalidID is returned when an identifier is not a valid ObjectID hex string.
	ErrInvalidID = errors.New("invalid identifier")
)

// Document is a single record as held by the store. The store-assigned
// identifier lives under the "_id" key.
type Document map[string]any

// Filter is an exact-match conjunction of field/value constraints.
// An empty filter matches every document.
type Filter map[string]any

// Store is the interface that all backing stores must implement.
// It operates on named collections of documents.
type Store interface {
	// Insert stores doc under a freshly generated identifier and returns it as a hex string.
	Insert(ctx context.Context, collection string, doc Document) (string, error)

	// Find returns every document in a collection matching filter, in insertion order.
	Find(ctx context.Context, collection string, filter Filter) ([]Document, error)

	// FindByID returns a single document, or nil if not found.
	FindByID(ctx context.Context, collection, id string) (Document, error)

	// ListCollections returns the names of all collections that contain data.
	ListCollections(ctx context.Context) ([]string, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Name identifies the underlying database.
	Name() string

	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*JsonFileStore)(nil)
	_ Store = (*SQLStore)(nil)
	_ Store = (*MongoStore)(nil)
)
