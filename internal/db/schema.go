package db

import (
	"context"
	"fmt"
)

// Schema statements for the relational backend. Job numbers carry a UNIQUE
// constraint so the store, not the form, is the final authority on
// duplicates.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		jobnum TEXT NOT NULL UNIQUE,
		vin TEXT NOT NULL,
		technician TEXT NOT NULL,
		description TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending'
	)`,
	`CREATE TABLE IF NOT EXISTS technicians (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created INTEGER NOT NULL
	)`,
}

// EnsureSchema creates the tables on first run; every statement is
// idempotent so startup can run it unconditionally.
func EnsureSchema(ctx context.Context, d *DB) error {
	for _, stmt := range schema {
		if _, err := d.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
