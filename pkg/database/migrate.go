package database

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

// Migrator applies versioned schema migrations read from an fs.FS.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator opens a migrator over the SQL files in dir of source, targeting
// the database at url (postgres:// form).
func NewMigrator(source fs.FS, dir, url string) (*Migrator, error) {
	src, err := iofs.New(source, dir)
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. An up-to-date schema is not an error.
func (m *Migrator) Up() error {
	return ignoreNoChange(m.m.Up())
}

// Down reverts all migrations.
func (m *Migrator) Down() error {
	return ignoreNoChange(m.m.Down())
}

// Steps applies n migrations forward, or -n backward when n is negative.
func (m *Migrator) Steps(n int) error {
	return ignoreNoChange(m.m.Steps(n))
}

// Version returns the current schema version and whether it is dirty.
func (m *Migrator) Version() (uint, bool, error) {
	return m.m.Version()
}

// Force sets the schema version without running migrations.
func (m *Migrator) Force(version int) error {
	return m.m.Force(version)
}

// Close releases the source and database handles.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
