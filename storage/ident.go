package storage

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DecodeID converts the external string representation of an identifier into
// the store's native ObjectID. Anything that is not a 24-character hex string
// fails with ErrInvalidID. No side effects.
func DecodeID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// EncodeID is the lossless inverse of DecodeID for all valid identifiers.
func EncodeID(id primitive.ObjectID) string {
	return id.Hex()
}

// DecodeIDs decodes a list of external identifiers, preserving order.
// A single malformed entry fails the whole batch so that callers can treat
// reference validation as all-or-nothing.
func DecodeIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, err := DecodeID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
