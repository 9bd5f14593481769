// Package backend picks a storage.Storage implementation from a database
// connection string.
package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/aanand-mishra/contacts/internal/storage"
	"github.com/aanand-mishra/contacts/internal/storage/postgres"
	"github.com/aanand-mishra/contacts/internal/storage/sqlite"
)

// Kind names a storage backend.
type Kind string

const (
	SQLite   Kind = "sqlite"
	Postgres Kind = "postgres"
)

// Parse splits a connection string into its backend and the value the
// backend expects: a file path for SQLite, the full URL for Postgres.
//
//	sqlite:///contacts.db        -> sqlite, "contacts.db"
//	sqlite:////var/lib/c.db      -> sqlite, "/var/lib/c.db"
//	contacts.db                  -> sqlite, "contacts.db"
//	postgres://u:p@host/contacts -> postgres, unchanged
func Parse(dsn string) (Kind, string, error) {
	switch {
	case dsn == "":
		return "", "", fmt.Errorf("backend: empty database url")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite:///"):
		path := strings.TrimPrefix(dsn, "sqlite:///")
		if path == "" {
			return "", "", fmt.Errorf("backend: sqlite url has no path: %q", dsn)
		}
		return SQLite, path, nil
	case strings.Contains(dsn, "://"):
		scheme, _, _ := strings.Cut(dsn, "://")
		return "", "", fmt.Errorf("backend: unsupported scheme %q", scheme)
	default:
		return SQLite, dsn, nil
	}
}

// Open parses dsn and opens the matching store.
func Open(ctx context.Context, dsn string) (storage.Storage, Kind, error) {
	kind, target, err := Parse(dsn)
	if err != nil {
		return nil, "", err
	}

	switch kind {
	case Postgres:
		s, err := postgres.New(ctx, target)
		if err != nil {
			return nil, "", err
		}
		return s, kind, nil
	default:
		s, err := sqlite.New(ctx, target)
		if err != nil {
			return nil, "", err
		}
		return s, kind, nil
	}
}
