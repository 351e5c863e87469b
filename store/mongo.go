package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore maps collections one-to-one onto MongoDB collections and keeps
// native ObjectIDs under "_id".
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore creates a client for uri. The driver connects lazily, so a
// store is returned even when the server is not yet reachable; use Ping to
// check.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	oid := NewID()
	stored := make(bson.M, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	stored[IDField] = oid
	if _, err := s.db.Collection(collection).InsertOne(ctx, stored); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return oid.Hex(), nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}
	cur, err := s.db.Collection(collection).Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	result := make([]Document, 0, len(raw))
	for _, m := range raw {
		result = append(result, fromBSON(m))
	}
	return result, nil
}

func (s *MongoStore) FindByID(ctx context.Context, collection, id string) (Document, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	var m bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{IDField: oid}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return fromBSON(m), nil
}

func (s *MongoStore) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return names, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Name() string { return s.db.Name() }

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// fromBSON converts driver-specific container types into plain Go values.
func fromBSON(m bson.M) Document {
	doc := make(Document, len(m))
	for k, v := range m {
		doc[k] = plain(v)
	}
	return doc
}

func plain(v any) any {
	switch t := v.(type) {
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case bson.M:
		return map[string]any(fromBSON(t))
	case primitive.D:
		return map[string]any(fromBSON(t.Map()))
	default:
		return v
	}
}
