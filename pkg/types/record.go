package types

// Record is a value that can be stored in a keyspace.
type Record interface {
	// Key returns the canonical key the record is stored under.
	Key() string

	// Pack returns the canonical binary encoding of the record.
	Pack() ([]byte, error)
}

// RecordPtr is the pointer form of a record type, able to decode itself
// from the bytes produced by Pack.
type RecordPtr[R any] interface {
	*R
	Unpack(data []byte) error
}

// Entry is a single key/value pair written to a partition.
type Entry struct {
	Key   []byte
	Value []byte
}

// Partition is one opened keyspace of an engine. Implementations must keep
// keys in ascending byte order and make every mutating call durable before
// it returns. Engine failures are returned wrapped in ErrStoreIO.
type Partition interface {
	// Put stores value under key, replacing any previous value.
	Put(key, value []byte) error

	// Delete removes key. Deleting an absent key succeeds.
	Delete(key []byte) error

	// Apply writes all entries atomically: either every key is written or
	// none is.
	Apply(entries []Entry) error

	// Iterate calls fn for every entry in ascending key order. The slices
	// passed to fn are only valid for the duration of the call. Iteration
	// stops at the first error returned by fn, which Iterate returns as is.
	Iterate(fn func(key, value []byte) error) error

	// Close releases the engine resources held by the partition.
	Close() error
}

// Opener opens the partition for keyspace ks of the store rooted at path,
// creating both if they do not exist. Failures are wrapped in ErrStoreOpen.
type Opener func(path string, ks Keyspace) (Partition, error)
