// Package objectid generates and validates the 24-hex-character identities used by every entity.
package objectid

import "go.mongodb.org/mongo-driver/v2/bson"

// New returns a fresh, time-ordered identity.
func New() string { return bson.NewObjectID().Hex() }

// Valid reports whether id is a syntactically valid identity.
func Valid(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
