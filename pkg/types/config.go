package types

import "fmt"

// Config selects the storage engine and where it keeps its data. It is built
// once at process start and passed to store.New.
type Config struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	// StoragePath overrides the default store location when non-empty.
	StoragePath string `json:"storage_location" yaml:"storage_location" mapstructure:"storage_location"`
}

// Supported backend names.
const (
	BackendLevelDB = "leveldb"
	BackendSQLite  = "sqlite"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = BackendLevelDB

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendLevelDB: true,
	BackendSQLite:  true,
}

// Validate checks that the Config is well-formed. The returned error
// matches ErrConfig.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return fmt.Errorf("%w %q", ErrBackendUnknown, c.Backend)
	}
	return nil
}
