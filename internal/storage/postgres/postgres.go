// Package postgres opens the Postgres-backed record store through the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/aanand-mishra/contacts/internal/storage/sqlstore"
)

const driverName = "pgx"

const schema = `
	CREATE TABLE IF NOT EXISTS people (
		id    BIGSERIAL PRIMARY KEY,
		fname VARCHAR(100) NOT NULL,
		lname VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL
	)
`

// New connects with dsn, verifies the connection and creates the people
// table if needed.
func New(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}
	return sqlstore.New(db, sqlstore.Dollar), nil
}
