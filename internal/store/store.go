// Package store implements the tinymark storage operations: open a keyspace,
// insert one or many records, remove by key and scan in key order.
//
// Every Open resolves the store path and opens the engine afresh; a Handle
// lives for one command and is closed by the caller.
package store

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/tinymark/internal/leveldb"
	"github.com/mesh-intelligence/tinymark/internal/paths"
	"github.com/mesh-intelligence/tinymark/internal/sqlite"
	"github.com/mesh-intelligence/tinymark/pkg/types"
)

// openers maps each backend name to its engine.
var openers = map[string]types.Opener{
	types.BackendLevelDB: leveldb.Open,
	types.BackendSQLite:  sqlite.Open,
}

// Store opens keyspaces of the configured engine.
type Store struct {
	config types.Config
	open   types.Opener
}

// New validates config and returns a Store for its backend.
func New(config types.Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Store{
		config: config,
		open:   openers[config.Backend],
	}, nil
}

// Config returns the configuration the store was created with.
func (s *Store) Config() types.Config {
	return s.config
}

// Open resolves the store path and opens keyspace ks.
func (s *Store) Open(ks types.Keyspace) (*Handle, error) {
	if !ks.Valid() {
		return nil, fmt.Errorf("%w %v", types.ErrUnknownKeyspace, ks)
	}
	path, err := paths.ResolveStorePath(s.config.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	part, err := s.open(path, ks)
	if err != nil {
		return nil, err
	}
	return &Handle{
		partition: part,
		keyspace:  ks,
		path:      path,
	}, nil
}

// Do opens keyspace ks, runs fn and closes the handle. A close failure is
// reported alongside any error from fn.
func (s *Store) Do(ks types.Keyspace, fn func(h *Handle) error) error {
	h, err := s.Open(ks)
	if err != nil {
		return err
	}
	err = fn(h)
	return errors.Join(err, h.Close())
}

// Handle is an open keyspace.
type Handle struct {
	partition types.Partition
	keyspace  types.Keyspace
	path      string
}

// Keyspace returns the keyspace the handle was opened for.
func (h *Handle) Keyspace() types.Keyspace {
	return h.keyspace
}

// Path returns the resolved store path.
func (h *Handle) Path() string {
	return h.path
}

// Close releases the engine.
func (h *Handle) Close() error {
	return h.partition.Close()
}

// Insert stores rec under its key, replacing any previous record, and
// returns once the write is durable.
func Insert[R types.Record](h *Handle, rec R) error {
	data, err := rec.Pack()
	if err != nil {
		return fmt.Errorf("pack %q: %w", rec.Key(), err)
	}
	if err := h.partition.Put([]byte(rec.Key()), data); err != nil {
		return fmt.Errorf("insert %q: %w", rec.Key(), err)
	}
	return nil
}

// InsertMany stores every record in one atomic batch. All records are packed
// before anything is written, so a record that fails to pack leaves the
// keyspace unchanged.
func InsertMany[R types.Record](h *Handle, recs []R) error {
	if len(recs) == 0 {
		return nil
	}
	entries := make([]types.Entry, 0, len(recs))
	for i, rec := range recs {
		data, err := rec.Pack()
		if err != nil {
			return fmt.Errorf("pack record %d (%q): %w", i, rec.Key(), err)
		}
		entries = append(entries, types.Entry{Key: []byte(rec.Key()), Value: data})
	}
	if err := h.partition.Apply(entries); err != nil {
		return fmt.Errorf("insert %d records: %w", len(entries), err)
	}
	return nil
}

// Remove deletes the record stored under key. Removing an absent key
// succeeds.
func (h *Handle) Remove(key string) error {
	if err := h.partition.Delete([]byte(key)); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// ScanAll decodes every record of the keyspace in ascending key order. An
// empty keyspace yields an empty slice. The first record that fails to
// decode aborts the scan and nothing is returned.
func ScanAll[R any, P types.RecordPtr[R]](h *Handle) ([]R, error) {
	records := []R{}
	err := h.partition.Iterate(func(key, value []byte) error {
		var rec R
		if err := P(&rec).Unpack(value); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", h.keyspace, err)
	}
	return records, nil
}
