package db

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
)

// ErrNotFound is returned by the read API when no row matches.
var ErrNotFound = errors.New("not found")

// SQLite result codes, see https://www.sqlite.org/rescode.html.
const (
	sqliteConstraint       = 19
	sqliteConstraintUnique = 2067
)

// StorageError reports that the store could not be opened, read or written.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConstraintError reports a uniqueness violation, such as two registrations
// claiming the same folder.
type ConstraintError struct {
	Table string
	Err   error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation on %s: %v", e.Table, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// classify wraps a driver error from a write against table.
func classify(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if isConstraintError(err) {
		return &ConstraintError{Table: table, Err: err}
	}
	return &StorageError{Op: op, Err: err}
}

func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqliteConstraint || code == sqliteConstraintUnique
	}
	return false
}
