// Package store defines the persistence contract the chain is built on,
// along with the sentinel errors shared by every backend.
package store

import "errors"

//go:generate mockgen -source store.go -destination store_mocks.go -package store

// ErrNotFound is returned by Get when no value exists for the specified
// key. It reports absence, not failure, and callers are expected to
// translate it rather than surface it.
var ErrNotFound = errors.New("not found")

// Store represents the behavior required for reading and writing chain
// data to durable storage. Implementations must flush a Put to stable
// storage before returning so a completed write survives an unclean
// shutdown of the process. A single process owns the store exclusively;
// concurrent access from other processes is undefined.
type Store interface {

	// Put writes the value for the specified key, replacing any
	// existing value.
	Put(key []byte, value []byte) error

	// Get reads the value for the specified key. A missing key returns
	// ErrNotFound.
	Get(key []byte) ([]byte, error)

	// ForEach runs the specified function against every key/value pair
	// in the store. Each call starts a fresh scan. Returning an error
	// from the function stops the scan and ForEach returns that error.
	// The key and value slices are only valid for the duration of the
	// call; the function must copy anything it retains.
	ForEach(fn func(key []byte, value []byte) error) error

	// DeleteAll removes every entry from the store.
	DeleteAll() error

	// Close releases the underlying resources.
	Close() error
}
