package sqlite

import "github.com/mesh-intelligence/tinymark/pkg/types"

// Keys are BLOBs so that ORDER BY key compares bytes with memcmp, the same
// order the LevelDB engine iterates in.
const (
	createBookmarks = `CREATE TABLE IF NOT EXISTS bookmarks (
    key BLOB PRIMARY KEY NOT NULL,
    value BLOB NOT NULL
) WITHOUT ROWID;`

	createContainers = `CREATE TABLE IF NOT EXISTS containers (
    key BLOB PRIMARY KEY NOT NULL,
    value BLOB NOT NULL
) WITHOUT ROWID;`
)

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

// keyspaceDDL maps each keyspace to the statement that creates its table.
// The table name equals the keyspace name.
var keyspaceDDL = map[types.Keyspace]string{
	types.KeyspaceBookmarks:  createBookmarks,
	types.KeyspaceContainers: createContainers,
}
