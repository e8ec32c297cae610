// Package storage persists save-game blobs keyed by adventure and
// user. The interpreter treats blobs as opaque bytes; the codec lives
// in engine/save.
package storage

import "errors"

// ErrNotFound is returned when no blob exists for a key.
var ErrNotFound = errors.New("save not found")

// BlobStore stores one save blob per (adventure, user) pair.
type BlobStore interface {
	Load(adventure, user string) ([]byte, error)
	Save(adventure, user string, data []byte) error
	Delete(adventure, user string) error
	Close() error
}
