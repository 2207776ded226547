// Package snapshot persists whole-collection documents.
//
// A snapshot is the complete serialized state of one content collection.
// Backends never apply partial updates: Save replaces the stored document
// and Load returns the latest one. Loading a collection that was never saved
// returns (nil, nil) so callers can start from an empty collection.
package snapshot

import (
	"context"
	"errors"
	"regexp"
)

// Backend stores and retrieves collection snapshots by name.
type Backend interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// Lister is implemented by backends that can enumerate stored collections.
type Lister interface {
	Names(ctx context.Context) ([]string, error)
}

// ErrInvalidName is returned for collection names that are not safe to use
// as file names or keys.
var ErrInvalidName = errors.New("snapshot: invalid collection name")

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func checkName(name string) error {
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}
