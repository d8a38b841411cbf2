package sqlite_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/store"
	"github.com/ardanlabs/ledger/foundation/ledger/store/sqlite"
	"github.com/stretchr/testify/require"
)

func TestSQLite_CanKeepDataPersistent(t *testing.T) {
	key := []byte("key1")
	value := []byte("value1")

	path := filepath.Join(t.TempDir(), "chain.db")

	db, err := sqlite.New(path)
	require.NoError(t, err)

	require.NoError(t, db.Put(key, value))
	require.NoError(t, db.Close())

	db2, err := sqlite.New(path)
	require.NoError(t, err)

	val, err := db2.Get(key)
	require.NoError(t, err)
	require.Equal(t, value, val)

	require.NoError(t, db2.Close())
}

func TestSQLite_ReturnsNotFoundForMissingKey(t *testing.T) {
	db, err := sqlite.New(filepath.Join(t.TempDir(), "chain.db"))
	require.NoError(t, err)

	_, err = db.Get([]byte("nonexistent"))
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, db.Close())
}

func TestSQLite_OverwritesExistingValue(t *testing.T) {
	require := require.New(t)

	db, err := sqlite.New(filepath.Join(t.TempDir(), "chain.db"))
	require.NoError(err)

	key := []byte("key")
	require.NoError(db.Put(key, []byte("old")))
	require.NoError(db.Put(key, []byte("new")))

	val, err := db.Get(key)
	require.NoError(err)
	require.Equal([]byte("new"), val)

	require.NoError(db.Close())
}

func TestSQLite_ForEachStopsOnCallbackError(t *testing.T) {
	require := require.New(t)

	db, err := sqlite.New(filepath.Join(t.TempDir(), "chain.db"))
	require.NoError(err)

	require.NoError(db.Put([]byte("key1"), []byte("value1")))
	require.NoError(db.Put([]byte("key2"), []byte("value2")))

	boom := errors.New("boom")
	visits := 0
	err = db.ForEach(func(key []byte, value []byte) error {
		visits++
		return boom
	})
	require.ErrorIs(err, boom)
	require.Equal(1, visits)

	require.NoError(db.Close())
}

func TestSQLite_DeleteAllRemovesEveryEntry(t *testing.T) {
	require := require.New(t)

	db, err := sqlite.New(filepath.Join(t.TempDir(), "chain.db"))
	require.NoError(err)

	require.NoError(db.Put([]byte("key1"), []byte("value1")))
	require.NoError(db.Put([]byte("key2"), []byte("value2")))

	require.NoError(db.DeleteAll())

	count := 0
	err = db.ForEach(func(key []byte, value []byte) error {
		count++
		return nil
	})
	require.NoError(err)
	require.Zero(count)

	require.NoError(db.Close())
}
