package storage

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when no complaint has the requested id.
	ErrNotFound = errors.New("complaint not found")
	// ErrDuplicateNumber is returned when a write collides on the unique number column.
	ErrDuplicateNumber = errors.New("complaint number already taken")
)

const pgUniqueViolation = "23505"

// isUniqueViolation recognises unique-constraint failures from every
// backend we open: translated gorm errors, pgx and the modernc SQLite driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
		return false
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
