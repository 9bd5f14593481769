// Package sqlite opens the SQLite-backed record store.
//
// SQLite keeps everything in a single file with no server process, which
// makes it the default backend for local runs and tests. The blank import
// registers the cgo "sqlite3" driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/contacts/internal/storage/sqlstore"
)

const schema = `
	CREATE TABLE IF NOT EXISTS people (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		fname VARCHAR(100) NOT NULL,
		lname VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL
	)
`

// New opens (creating if needed) the database file at path, creates the
// people table if it does not already exist and returns a ready store.
func New(ctx context.Context, path string) (*sqlstore.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	// _foreign_keys and busy_timeout are mattn DSN options; the busy
	// timeout keeps concurrent writers from failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return sqlstore.New(db, sqlstore.Question), nil
}
