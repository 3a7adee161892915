// Package sqlite implements the alternate tinymark storage engine on top of
// SQLite. A store is a single database file; each keyspace is a
// WITHOUT ROWID table keyed by BLOB.
package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tinymark/pkg/types"
)

// FileName is the database file created inside the store directory.
const FileName = "tinymark.db"

// Partition is one keyspace of an open SQLite store.
type Partition struct {
	db    *sql.DB
	table string
}

var _ types.Partition = (*Partition)(nil)

// dsn enables WAL and full fsync on commit for every connection.
func dsn(dbPath string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(FULL)")
	return "file:" + dbPath + "?" + q.Encode()
}

// Open opens (creating if needed) the SQLite store in directory path and
// returns the partition for ks. The caller must Close the partition.
func Open(path string, ks types.Keyspace) (types.Partition, error) {
	ddl, ok := keyspaceDDL[ks]
	if !ok {
		return nil, fmt.Errorf("%w: %w %v", types.ErrStoreOpen, types.ErrUnknownKeyspace, ks)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreOpen, err)
	}
	dbPath := filepath.Join(path, FileName)

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite %s: %w", types.ErrStoreOpen, dbPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := prepare(db, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: sqlite %s: %w", types.ErrStoreOpen, dbPath, err)
	}

	return &Partition{db: db, table: ks.Name()}, nil
}

// prepare checks the schema version and creates the keyspace table.
func prepare(db *sql.DB, ddl string) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version > schemaVersion {
		return fmt.Errorf("database version: %d > current version: %d", version, schemaVersion)
	}
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if version < schemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Partition) ioError(op string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", types.ErrStoreIO, p.table, op, err)
}

// Put stores a key/value pair, replacing any existing value.
func (p *Partition) Put(key, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := p.db.Exec(
		"INSERT INTO "+p.table+" (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return p.ioError("put", err)
	}
	return nil
}

// Delete removes a key; an absent key is not an error.
func (p *Partition) Delete(key []byte) error {
	if _, err := p.db.Exec("DELETE FROM "+p.table+" WHERE key = ?", key); err != nil {
		return p.ioError("delete", err)
	}
	return nil
}

// Apply writes all entries in one transaction.
func (p *Partition) Apply(entries []types.Entry) error {
	tx, err := p.db.Begin()
	if err != nil {
		return p.ioError("begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO " + p.table + " (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		return p.ioError("prepare", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		value := e.Value
		if value == nil {
			value = []byte{}
		}
		if _, err := stmt.Exec(e.Key, value); err != nil {
			return p.ioError("batch", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return p.ioError("commit", err)
	}
	return nil
}

// Iterate visits the table in ascending key order.
func (p *Partition) Iterate(fn func(key, value []byte) error) error {
	rows, err := p.db.Query("SELECT key, value FROM " + p.table + " ORDER BY key")
	if err != nil {
		return p.ioError("query", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return p.ioError("scan", err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return p.ioError("iterate", err)
	}
	return nil
}

// Close closes the database handle.
func (p *Partition) Close() error {
	if err := p.db.Close(); err != nil {
		return p.ioError("close", err)
	}
	return nil
}
