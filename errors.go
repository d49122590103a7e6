package framesql

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure returned by framesql operations.
// Match with errors.Is. The concrete error carries a message and, where a
// database or driver error caused the failure, the original error in its
// wrap chain.
var (
	// ErrInvalidInput is returned on malformed arguments to an operation:
	// a missing placeholder occurrence, an empty value set, or an invalid
	// option value.
	ErrInvalidInput = errors.New("framesql: invalid input")

	// ErrInvalidTableName is returned when a table identifier fails
	// validation before being interpolated into generated SQL.
	ErrInvalidTableName = errors.New("framesql: invalid table name")

	// ErrInvalidColumnName is returned when a selected column name does not
	// exist in the source frame, or fails identifier validation.
	ErrInvalidColumnName = errors.New("framesql: invalid column name")

	// ErrCreateEngine is returned when the database handle cannot be
	// constructed.
	ErrCreateEngine = errors.New("framesql: create engine")

	// ErrCreateConnectionURL is returned when a connection string cannot be
	// built from the supplied configuration.
	ErrCreateConnectionURL = errors.New("framesql: create connection url")

	// ErrDatabaseFileNotFound is returned when a file-backed database is
	// required to exist but does not.
	ErrDatabaseFileNotFound = errors.New("framesql: database file not found")

	// ErrExecuteStatement is returned when the database rejects or fails a
	// submitted statement.
	ErrExecuteStatement = errors.New("framesql: execute statement")

	// ErrLoadTable is returned when reading a query or table into a Frame
	// fails.
	ErrLoadTable = errors.New("framesql: load table")

	// ErrSetIndex is returned when row-key assignment on a Frame fails,
	// e.g. on duplicate or missing key values.
	ErrSetIndex = errors.New("framesql: set index")

	// ErrSaveFrame is returned when persisting a Frame to a table fails for
	// a reason other than an existence conflict.
	ErrSaveFrame = errors.New("framesql: save frame")

	// ErrTableExists is returned when the target table already exists and
	// the save policy forbids that.
	ErrTableExists = errors.New("framesql: table exists")

	// ErrDeleteFromTable is returned when deleting all rows from a table
	// fails.
	ErrDeleteFromTable = errors.New("framesql: delete from table")

	// ErrDataTypeConversion is returned when type coercion or timezone
	// handling of a column fails.
	ErrDataTypeConversion = errors.New("framesql: data type conversion")

	// ErrStatementNotSupported is returned when a statement kind (MERGE) is
	// requested against a dialect that has no native support for it.
	ErrStatementNotSupported = errors.New("framesql: sql statement not supported")
)

// Error is the concrete error type returned by framesql operations.
// It ties a human-readable message to one of the sentinel kinds above and
// optionally wraps the causing error.
type Error struct {
	kind error
	msg  string
	err  error
}

// NewError returns an *Error of the given kind with a formatted message.
func NewError(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// WrapError returns an *Error of the given kind wrapping cause.
func WrapError(kind error, cause error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), err: cause}
}

// Error returns the error string.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %s", e.kind.Error(), e.msg, e.err.Error())
	}
	return fmt.Sprintf("%s: %s", e.kind.Error(), e.msg)
}

// Is reports whether the target matches this error's kind.
// This allows errors.Is(err, framesql.ErrTableExists) style checks.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// Unwrap returns the causing error, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the sentinel error classifying this error.
func (e *Error) Kind() error {
	return e.kind
}
