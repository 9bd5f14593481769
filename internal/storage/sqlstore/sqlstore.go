// Package sqlstore implements storage.Storage on top of database/sql.
//
// The SQL is written once with ? placeholders; a Dialect rewrites it for
// drivers that expect a different bind syntax. Backends (sqlite, postgres)
// open the driver, create the schema and hand the *sql.DB to New.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aanand-mishra/contacts/internal/storage"
	"github.com/aanand-mishra/contacts/internal/types"
)

var _ storage.Storage = (*Store)(nil)

// Dialect adapts query text to a driver.
type Dialect struct {
	Name string
	// Rebind rewrites ? placeholders. Nil leaves the query unchanged.
	Rebind func(query string) string
}

// Question keeps ? placeholders (SQLite, MySQL).
var Question = Dialect{Name: "question"}

// Dollar numbers placeholders as $1, $2, ... (Postgres).
var Dollar = Dialect{Name: "dollar", Rebind: rebindDollar}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const (
	insertPerson = `INSERT INTO people (fname, lname, email) VALUES (?, ?, ?) RETURNING id`
	selectPerson = `SELECT id, fname, lname, email FROM people WHERE id = ?`
	selectPeople = `SELECT id, fname, lname, email FROM people ORDER BY id`
	updatePerson = `UPDATE people SET fname = ?, lname = ?, email = ? WHERE id = ?`
	deletePerson = `DELETE FROM people WHERE id = ?`
)

// Store is a database/sql backed storage.Storage. A *sql.DB is a pool and
// safe for concurrent use, so one Store serves every request.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open database whose people table already exists.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB exposes the pool for schema setup and test hooks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) q(query string) string {
	if s.dialect.Rebind == nil {
		return query
	}
	return s.dialect.Rebind(query)
}

// withTx runs fn in a transaction, committing on success and rolling back
// on any error.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CreatePerson inserts a row and returns the autoincrement id.
func (s *Store) CreatePerson(ctx context.Context, p types.Person) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, s.q(insertPerson), p.FirstName, p.LastName, p.Email).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("CreatePerson: %w", err)
	}
	return id, nil
}

// GetPersonByID fetches exactly one row matched by primary key.
func (s *Store) GetPersonByID(ctx context.Context, id int64) (types.Person, error) {
	var p types.Person
	err := s.db.QueryRowContext(ctx, s.q(selectPerson), id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Person{}, fmt.Errorf("GetPersonByID %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Person{}, fmt.Errorf("GetPersonByID %d: %w", id, err)
	}
	return p, nil
}

// GetPeople returns all rows ordered by id.
func (s *Store) GetPeople(ctx context.Context) ([]types.Person, error) {
	rows, err := s.db.QueryContext(ctx, s.q(selectPeople))
	if err != nil {
		return nil, fmt.Errorf("GetPeople: query: %w", err)
	}
	defer rows.Close()

	people := make([]types.Person, 0)
	for rows.Next() {
		var p types.Person
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email); err != nil {
			return nil, fmt.Errorf("GetPeople: scan row: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetPeople: rows iteration: %w", err)
	}
	return people, nil
}

// UpdatePersonByID overwrites the name and email columns in place.
func (s *Store) UpdatePersonByID(ctx context.Context, id int64, p types.Person) (types.Person, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(updatePerson), p.FirstName, p.LastName, p.Email, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID %d: %w", id, err)
	}

	p.ID = id
	return p, nil
}

// DeletePersonByID removes a row; a missing id is not an error.
func (s *Store) DeletePersonByID(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(deletePerson), id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("DeletePersonByID %d: %w", id, err)
	}
	return deleted, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}
