package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyspaceNamesAreStable(t *testing.T) {
	assert.Equal(t, "bookmarks", KeyspaceBookmarks.Name())
	assert.Equal(t, "containers", KeyspaceContainers.Name())
	assert.Equal(t, "", Keyspace(99).Name())
	assert.False(t, Keyspace(0).Valid())
}

func TestParseKeyspace(t *testing.T) {
	for _, ks := range Keyspaces {
		got, err := ParseKeyspace(ks.Name())
		require.NoError(t, err)
		assert.Equal(t, ks, got)
	}

	_, err := ParseKeyspace("tags")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKeyspace))
	assert.True(t, errors.Is(err, ErrConfig))
}
