package types

import "fmt"

// Keyspace selects one of the independent, ordered partitions of a store.
type Keyspace int

// Known keyspaces.
const (
	KeyspaceBookmarks Keyspace = iota + 1
	KeyspaceContainers
)

// keyspaceNames maps each keyspace to its on-disk name. The names are part
// of the storage layout: changing one orphans the data stored under it.
var keyspaceNames = map[Keyspace]string{
	KeyspaceBookmarks:  "bookmarks",
	KeyspaceContainers: "containers",
}

// Keyspaces lists every known keyspace in declaration order.
var Keyspaces = []Keyspace{KeyspaceBookmarks, KeyspaceContainers}

// Name returns the stable storage name of the keyspace, or "" if the value
// is not a known keyspace.
func (k Keyspace) Name() string {
	return keyspaceNames[k]
}

// Valid reports whether k is a known keyspace.
func (k Keyspace) Valid() bool {
	_, ok := keyspaceNames[k]
	return ok
}

func (k Keyspace) String() string {
	if name := k.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("Keyspace(%d)", int(k))
}

// ParseKeyspace returns the keyspace with the given storage name.
func ParseKeyspace(name string) (Keyspace, error) {
	for k, n := range keyspaceNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownKeyspace, name)
}
