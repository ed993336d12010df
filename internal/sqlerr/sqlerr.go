// Package sqlerr normalizes database driver errors.
//
// It parses SQLSTATE codes coming out of the Postgres driver and converts
// them into user-facing application errors (e.g. a unique violation becomes
// a 400 "already exists" response instead of a leaked driver message).
package sqlerr

import "fmt"

// Code classifies a database error into the categories the application
// cares about.
type Code int

const (
	Other Code = iota
	ForeignKeyViolation
	UniqueViolation
	NotNullViolation
	CheckViolation
	SerializationFailure
)

// Severity mirrors the Postgres error severity field.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityError
	SeverityFatal
	SeverityPanic
)

// MapCode maps a SQLSTATE code to a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	case "40001":
		return SerializationFailure
	default:
		return Other
	}
}

// MapSeverity maps the Postgres severity string to a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	default:
		return SeverityUnknown
	}
}

// Error is a structured database error carrying the metadata needed to build
// client-facing messages (table, column, constraint).
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	if e.TableName != "" {
		return fmt.Sprintf("database error table:%s: %s", e.TableName, e.Message)
	}
	return fmt.Sprintf("database error: %s", e.Message)
}

// Unwrap exposes the original driver error for errors.As chains.
func (e *Error) Unwrap() error {
	return e.driverErr
}
