package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestOpenCreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	p := openTest(t, dir, types.KeyspaceBookmarks)
	defer p.Close()

	if _, err := os.Stat(filepath.Join(dir, FileName)); os.IsNotExist(err) {
		t.Errorf("%s not created", FileName)
	}
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

func TestPartitionOrdersByBytes(t *testing.T) {
	p := openTest(t, t.TempDir(), types.KeyspaceBookmarks)
	defer p.Close()

	// byte order puts upper case before lower case and 0xc3 (ü) last
	for _, k := range []string{"b", "ü", "B", "a"} {
		require.NoError(t, p.Put([]byte(k), []byte("x")))
	}
	assert.Equal(t, []string{"B=x", "a=x", "b=x", "ü=x"}, collect(t, p))
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
	assert.Empty(t, collect(t, p))
}

func TestPartitionApply(t *testing.T) {
	p := openTest(t, t.TempDir(), types.KeyspaceBookmarks)
	defer p.Close()

	require.NoError(t, p.Apply([]types.Entry{
		{Key: []byte("b"), Value: []byte("2")},
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("3")},
	}))
	require.NoError(t, p.Apply(nil))
	assert.Equal(t, []string{"a=1", "b=3"}, collect(t, p))
}

func TestPartitionIterateStopsOnError(t *testing.T) {
	p := openTest(t, t.TempDir(), types.KeyspaceBookmarks)
	defer p.Close()

	require.NoError(t, p.Put([]byte("a"), []byte("1")))
	require.NoError(t, p.Put([]byte("b"), []byte("2")))

	stop := errors.New("stop")
	calls := 0
	err := p.Iterate(func(key, value []byte) error {
		calls++
		return stop
	})
	assert.Same(t, stop, err)
	assert.Equal(t, 1, calls)
}

func TestOpenRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()

	db, err := sql.Open("sqlite", filepath.Join(dir, FileName))
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(dir, types.KeyspaceBookmarks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrStoreOpen))
}

func TestOpenRejectsUnknownKeyspace(t *testing.T) {
	_, err := Open(t.TempDir(), types.Keyspace(42))
	assert.True(t, errors.Is(err, types.ErrStoreOpen))
}
