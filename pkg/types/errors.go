package types

import (
	"errors"
	"fmt"
)

// Error kinds returned by the store. Every failure path wraps exactly one of
// these so callers can classify it with errors.Is.
var (
	ErrConfig        = errors.New("configuration error")
	ErrStoreOpen     = errors.New("cannot open store")
	ErrSerialization = errors.New("serialization error")
	ErrStoreIO       = errors.New("store I/O error")
)

// Configuration errors.
var (
	ErrBackendEmpty    = fmt.Errorf("%w: backend must not be empty", ErrConfig)
	ErrBackendUnknown  = fmt.Errorf("%w: unknown backend", ErrConfig)
	ErrUnknownKeyspace = fmt.Errorf("%w: unknown keyspace", ErrConfig)
)

// Record encoding errors.
var (
	// ErrInvalidRecord is returned by Pack when a record fails validation.
	ErrInvalidRecord = fmt.Errorf("%w: invalid record", ErrSerialization)

	// ErrCorruptRecord is returned by Unpack for bytes that were not
	// produced by Pack (truncated, wrong version or checksum mismatch).
	ErrCorruptRecord = fmt.Errorf("%w: corrupt record", ErrSerialization)
)
