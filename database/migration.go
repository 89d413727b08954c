package database

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
)

//go:embed migrations
var dbMigrations embed.FS

// Migrate applies every pending embedded migration and returns the resulting version.
// The migrator is not closed: closing it would close db.
func Migrate(db *sql.DB) (uint, error) {
	src, err := iofs.New(dbMigrations, "migrations")
	if err != nil {
		return 0, errors.Wrap(err, "migrations source")
	}

	dst, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return 0, errors.Wrap(err, "migrations target")
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "sqlite3", dst)
	if err != nil {
		return 0, errors.Wrap(err, "migrator")
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		// db already up to date
	case err != nil:
		return 0, errors.Wrap(err, "migrate up")
	}

	version, _, err := migrator.Version()
	if err != nil {
		return 0, errors.Wrap(err, "migration version")
	}
	return version, nil
}
