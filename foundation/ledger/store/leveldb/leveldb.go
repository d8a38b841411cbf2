// Package leveldb provides the default durable store backend on top of
// a local LevelDB database.
package leveldb

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/ledger/store"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDB manages a LevelDB backed implementation of the store contract.
// Opening the database takes a file lock, so a second process opening the
// same path fails instead of corrupting state.
type LevelDB struct {
	db *leveldb.DB
}

var _ store.Store = (*LevelDB)(nil)

// New opens or creates the LevelDB database at the specified path.
func New(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb at %q: %w", path, err)
	}

	return &LevelDB{db: db}, nil
}

// Put writes the value for the specified key. The write is synced to
// stable storage before Put returns.
func (l *LevelDB) Put(key []byte, value []byte) error {
	return l.db.Put(key, value, &opt.WriteOptions{Sync: true})
}

// Get reads the value for the specified key, returning store.ErrNotFound
// when no value exists.
func (l *LevelDB) Get(key []byte) ([]byte, error) {
	data, err := l.db.Get(key, &opt.ReadOptions{})
	if err == leveldb.ErrNotFound {
		return nil, store.ErrNotFound
	}
	return data, err
}

// ForEach runs the specified function against every key/value pair.
func (l *LevelDB) ForEach(fn func(key []byte, value []byte) error) error {
	iter := l.db.NewIterator(nil, &opt.ReadOptions{})
	defer iter.Release()

	for iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}

	return iter.Error()
}

// DeleteAll removes every entry from the database in a single synced
// batch.
func (l *LevelDB) DeleteAll() error {
	batch := new(leveldb.Batch)

	iter := l.db.NewIterator(nil, &opt.ReadOptions{})
	for iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		batch.Delete(key)
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return err
	}

	return l.db.Write(batch, &opt.WriteOptions{Sync: true})
}

// Close releases the database and its file lock.
func (l *LevelDB) Close() error {
	return l.db.Close()
}
