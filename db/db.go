package db

import (
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"miniverse/util"
)

const dbFileName = "miniverse.db"

type DB struct {
	db *sql.DB
}

var (
	instance *DB
	once     sync.Once
)

// GetDB returns the process-wide database, opening and migrating it on first
// use. The file lives in the user data directory.
func GetDB() *DB {
	once.Do(func() {
		dataDir, err := util.GetDataDir()
		if err != nil {
			log.Fatalf("Could not resolve data dir: %v", err)
		}
		instance, err = NewDB(filepath.Join(dataDir, dbFileName))
		if err != nil {
			log.Fatalf("Could not open database: %v", err)
		}
	})
	return instance
}

// NewDB opens (or creates) the database at the given path and runs the
// schema migration.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	d := &DB{db: conn}
	if err := d.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrate() error {
	for _, stmt := range []string{
		sqlCreateDraftsTable,
		sqlCreateDraftsIndices,
		sqlCreateFeedCacheTable,
		sqlCreateFeedCacheIndices,
	} {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.db.Close()
}
