package leveldb

import (
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/mesh-intelligence/tinymark/pkg/types"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentVersion = 1

// every mutation is synced to disk before returning
var syncWrite = &ldb_opt.WriteOptions{Sync: true}

// Partition is one keyspace of an open LevelDB store.
type Partition struct {
	db     *leveldb.DB
	prefix []byte
	name   string
}

var _ types.Partition = (*Partition)(nil)

// Open opens (creating if needed) the LevelDB store at path and returns the
// partition for ks. The caller must Close the partition.
func Open(path string, ks types.Keyspace) (types.Partition, error) {
	name := ks.Name()
	if name == "" {
		return nil, fmt.Errorf("%w: %w %v", types.ErrStoreOpen, types.ErrUnknownKeyspace, ks)
	}

	db, err := leveldb.OpenFile(path, &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: false,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: leveldb %s: %w", types.ErrStoreOpen, path, err)
	}

	if err := checkVersion(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: leveldb %s: %w", types.ErrStoreOpen, path, err)
	}

	prefix := make([]byte, 0, len(name)+1)
	prefix = append(prefix, name...)
	prefix = append(prefix, 0x00)

	return &Partition{
		db:     db,
		prefix: prefix,
		name:   name,
	}, nil
}

// checkVersion tags an empty database with the current layout version and
// refuses one written by a newer layout.
func checkVersion(db *leveldb.DB) error {
	value, err := db.Get(versionKey, nil)
	if err == leveldb.ErrNotFound {
		buffer := make([]byte, 4)
		binary.BigEndian.PutUint32(buffer, currentVersion)
		return db.Put(versionKey, buffer, syncWrite)
	}
	if err != nil {
		return err
	}
	if len(value) != 4 {
		return fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(value))
	}
	if version := binary.BigEndian.Uint32(value); version > currentVersion {
		return fmt.Errorf("database version: %d > current version: %d", version, currentVersion)
	}
	return nil
}

// prepend the prefix onto the key
func (p *Partition) prefixKey(key []byte) []byte {
	prefixed := make([]byte, len(p.prefix), len(p.prefix)+len(key))
	copy(prefixed, p.prefix)
	return append(prefixed, key...)
}

// Put stores a key/value pair and syncs it to disk.
func (p *Partition) Put(key, value []byte) error {
	if err := p.db.Put(p.prefixKey(key), value, syncWrite); err != nil {
		return fmt.Errorf("%w: %s put: %w", types.ErrStoreIO, p.name, err)
	}
	return nil
}

// Delete removes a key; an absent key is not an error.
func (p *Partition) Delete(key []byte) error {
	if err := p.db.Delete(p.prefixKey(key), syncWrite); err != nil {
		return fmt.Errorf("%w: %s delete: %w", types.ErrStoreIO, p.name, err)
	}
	return nil
}

// Apply writes all entries as a single LevelDB batch.
func (p *Partition) Apply(entries []types.Entry) error {
	batch := new(leveldb.Batch)
	for _, e := range entries {
		batch.Put(p.prefixKey(e.Key), e.Value)
	}
	if err := p.db.Write(batch, syncWrite); err != nil {
		return fmt.Errorf("%w: %s batch of %d: %w", types.ErrStoreIO, p.name, len(entries), err)
	}
	return nil
}

// Iterate visits the keyspace from its first key to its last.
func (p *Partition) Iterate(fn func(key, value []byte) error) error {
	iter := p.db.NewIterator(ldb_util.BytesPrefix(p.prefix), nil)
	defer iter.Release()

	for iter.Next() {
		// contents of the returned slices must not be modified, and are
		// only valid until the next call to Next
		if err := fn(iter.Key()[len(p.prefix):], iter.Value()); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("%w: %s iterate: %w", types.ErrStoreIO, p.name, err)
	}
	return nil
}

// Close closes the underlying database.
func (p *Partition) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("%w: %s close: %w", types.ErrStoreIO, p.name, err)
	}
	return nil
}
