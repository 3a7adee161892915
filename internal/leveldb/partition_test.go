package leveldb

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/mesh-intelligence/tinymark/pkg/types"
)

func openTest(t *testing.T, path string, ks types.Keyspace) types.Partition {
	t.Helper()
	p, err := Open(path, ks)
	require.NoError(t, err)
	return p
}

func collect(t *testing.T, p types.Partition) []string {
	t.Helper()
	var keys []string
	err := p.Iterate(func(key, value []byte) error {
		keys = append(keys, string(key)+"="+string(value))
		return nil
	})
	require.NoError(t, err)
	return keys
}

func TestPartitionOrderAndOverwrite(t *testing.T) {
	p := openTest(t, t.TempDir(), types.KeyspaceBookmarks)
	defer p.Close()

	require.NoError(t, p.Put([]byte("A"), []byte("1")))
	require.NoError(t, p.Put([]byte("C"), []byte("3")))
	require.NoError(t, p.Put([]byte("B"), []byte("2")))
	require.NoError(t, p.Put([]byte("A"), []byte("4")))

	assert.Equal(t, []string{"A=4", "B=2", "C=3"}, collect(t, p))
}

func TestPartitionKeyspacesAreIndependent(t *testing.T) {
	dir := t.TempDir()

	bookmarks := openTest(t, dir, types.KeyspaceBookmarks)
	require.NoError(t, bookmarks.Put([]byte("shared"), []byte("b")))
	require.NoError(t, bookmarks.Close())

	containers := openTest(t, dir, types.KeyspaceContainers)
	defer containers.Close()
	assert.Empty(t, collect(t, containers))

	require.NoError(t, containers.Put([]byte("shared"), []byte("c")))
	assert.Equal(t, []string{"shared=c"}, collect(t, containers))
}

func TestPartitionDeleteIsIdempotent(t *testing.T) {
	p := openTest(t, t.TempDir(), types.KeyspaceBookmarks)
	defer p.Close()

	require.NoError(t, p.Put([]byte("k"), []byte("v")))
	require.NoError(t, p.Delete([]byte("k")))
	require.NoError(t, p.Delete([]byte("k")))
	require.NoError(t, p.Delete([]byte("never-written")))
	assert.Empty(t, collect(t, p))
}

func TestPartitionApply(t *testing.T) {
	p := openTest(t, t.TempDir(), types.KeyspaceBookmarks)
	defer p.Close()

	require.NoError(t, p.Apply([]types.Entry{
		{Key: []byte("b"), Value: []byte("2")},
		{Key: []byte("a"), Value: []byte("1")},
	}))
	require.NoError(t, p.Apply(nil))
	assert.Equal(t, []string{"a=1", "b=2"}, collect(t, p))
}

func TestPartitionIterateStopsOnError(t *testing.T) {
	p := openTest(t, t.TempDir(), types.KeyspaceBookmarks)
	defer p.Close()

	require.NoError(t, p.Put([]byte("a"), nil))
	require.NoError(t, p.Put([]byte("b"), nil))

	stop := errors.New("stop")
	calls := 0
	err := p.Iterate(func(key, value []byte) error {
		calls++
		return stop
	})
	assert.Same(t, stop, err)
	assert.Equal(t, 1, calls)
}

func TestPartitionPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	p := openTest(t, dir, types.KeyspaceBookmarks)
	require.NoError(t, p.Put([]byte("k"), []byte("v")))
	require.NoError(t, p.Close())

	p = openTest(t, dir, types.KeyspaceBookmarks)
	defer p.Close()
	assert.Equal(t, []string{"k=v"}, collect(t, p))
}

func TestOpenRejectsLockedStore(t *testing.T) {
	dir := t.TempDir()
	p := openTest(t, dir, types.KeyspaceBookmarks)
	defer p.Close()

	_, err := Open(dir, types.KeyspaceContainers)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrStoreOpen))
}

func TestOpenRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()

	db, err := leveldb.OpenFile(dir, nil)
	require.NoError(t, err)
	future := make([]byte, 4)
	binary.BigEndian.PutUint32(future, currentVersion+1)
	require.NoError(t, db.Put(versionKey, future, nil))
	require.NoError(t, db.Close())

	_, err = Open(dir, types.KeyspaceBookmarks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrStoreOpen))
}

func TestOpenRejectsUnknownKeyspace(t *testing.T) {
	_, err := Open(t.TempDir(), types.Keyspace(42))
	assert.True(t, errors.Is(err, types.ErrStoreOpen))
	assert.True(t, errors.Is(err, types.ErrUnknownKeyspace))
}
