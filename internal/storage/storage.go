// Package storage defines the Storage interface that any record store
// backend must satisfy.
//
// Handlers depend only on this interface, so the SQLite and Postgres
// backends are interchangeable and tests can pass fakes.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/contacts/internal/types"
)

// ErrNotFound is returned when no person matches the given identifier.
var ErrNotFound = errors.New("person not found")

// Storage is the record store contract. Every mutation runs in its own
// transaction: committed immediately on success, rolled back on failure.
type Storage interface {
	// CreatePerson inserts a new record and returns its generated ID.
	CreatePerson(ctx context.Context, p types.Person) (int64, error)

	// GetPersonByID fetches one record. Returns ErrNotFound when absent.
	GetPersonByID(ctx context.Context, id int64) (types.Person, error)

	// GetPeople returns every record ordered by ID, never nil.
	GetPeople(ctx context.Context) ([]types.Person, error)

	// UpdatePersonByID overwrites the three fields of an existing record,
	// leaving its ID untouched. Returns ErrNotFound when absent.
	UpdatePersonByID(ctx context.Context, id int64, p types.Person) (types.Person, error)

	// DeletePersonByID removes a record. It reports false, and no error,
	// when nothing matched.
	DeletePersonByID(ctx context.Context, id int64) (bool, error)

	// Close releases the underlying connection pool.
	Close() error
}
