// Package types defines the tinymark record model: bookmarks, containers,
// keyspaces, their canonical keys and binary encoding, the storage engine
// contract, and the standard error values shared by every backend.
package types
