// Package objectid converts the opaque string identifiers used on the wire
// into the document store's ObjectID type.
package objectid

import (
	"fmt"

	"anoa.com/collabhub/pkg/apperror"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Decode parses a 24 character hex identifier. Any other input fails with
// apperror.ErrInvalidID.
func Decode(text string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(text)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("%w: %q", apperror.ErrInvalidID, text)
	}
	return id, nil
}

// IsValid reports whether text would decode.
func IsValid(text string) bool {
	_, err := bson.ObjectIDFromHex(text)
	return err == nil
}

// DecodeValid decodes every well-formed identifier in texts and silently
// drops the rest.
func DecodeValid(texts []string) []bson.ObjectID {
	ids := make([]bson.ObjectID, 0, len(texts))
	for _, text := range texts {
		if id, err := bson.ObjectIDFromHex(text); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
