// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios.  ErrConflict signals that a compare-and-set write found the
// row in an unexpected state, typically because a concurrent request
// changed it first.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when a guarded update affects no rows or a
// unique constraint rejects the write.  Services translate this into a
// retryable storage conflict.
var ErrConflict = errors.New("conflict")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// IsUniqueViolation reports whether err is a unique constraint failure
// from either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	// modernc.org/sqlite reports "UNIQUE constraint failed: table.col"
	// (SQLITE_CONSTRAINT_UNIQUE / _PRIMARYKEY).
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "constraint_unique") ||
		strings.Contains(msg, "duplicate entry")
}

// DBTX is the subset of *sql.DB and *sql.Tx used by the repositories,
// letting one query implementation serve both pooled and transactional
// callers.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
