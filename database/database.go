package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/mbolis/quick-brief/config"
	"github.com/mbolis/quick-brief/log"
)

// Open connects to the SQLite file named by cfg.DBUrl and brings its schema up to date.
func Open(cfg config.Config) (db *sql.DB, err error) {
	db, err = sql.Open("sqlite3", DSN(cfg.DBUrl))
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	version, err := Migrate(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Debugf("database %s at schema version %d", cfg.DBUrl, version)

	return db, nil
}

// DSN adds the connection options every pooled connection needs: foreign keys,
// write transactions that take the lock at BEGIN, and waiting on a busy database
// instead of failing.
func DSN(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL"
}
