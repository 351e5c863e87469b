package store

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the native identifier key inside stored documents.
const IDField = "_id"

// NewID returns a new ObjectID.
func NewID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// ParseID converts a hex string into an ObjectID.
func ParseID(s string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return oid, nil
}

// Public returns a copy of doc with the native "_id" replaced by a string "id".
func Public(doc Document) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	if raw, ok := doc[IDField]; ok {
		out["id"] = idString(raw)
	}
	return out
}

// PublicAll applies Public to every document and never returns nil.
func PublicAll(docs []Document) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, Public(d))
	}
	return out
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprint(v)
	}
}
