package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel error kinds matching the taxonomy every caller (services,
// extraction, planner, briefing, api) checks against with errors.Is/As.
var (
	ErrNotFound               = errors.New("not found")
	ErrAlreadyExists          = errors.New("already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrConcurrentModification = errors.New("concurrent modification")
)

// NotFoundError reports an owner-scoped miss. Cross-owner access and a
// genuinely absent row look identical to the caller by design.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Entity, e.ID) }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports a uniqueness violation or an active-directive collision.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }
func (e *ConflictError) Unwrap() error { return ErrAlreadyExists }

// ValidationError reports invalid caller-supplied data.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %q: %s", e.Field, e.Message)
}
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// MissingRelationError reports that a dependent table or column is
// absent from the database. Callers are expected to degrade gracefully
// (see ComponentDesign §4.I) rather than fail the whole request.
type MissingRelationError struct {
	Relation string
	Note     string
}

func (e *MissingRelationError) Error() string {
	return fmt.Sprintf("missing relation %q: %s", e.Relation, e.Note)
}

// Postgres SQLSTATE codes for an absent table and an absent column.
const (
	sqlStateUndefinedTable  = "42P01"
	sqlStateUndefinedColumn = "42703"
)

// ClassifyRelationError inspects err for a Postgres "undefined table" or
// "undefined column" condition, either via its SQLSTATE code or (for
// drivers/wrappers that lose the code) a substring heuristic on the
// message. It returns a *MissingRelationError when recognized, or the
// original error unchanged otherwise.
func ClassifyRelationError(relation string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUndefinedTable:
			return &MissingRelationError{Relation: relation, Note: "relation does not exist: " + pgErr.Message}
		case sqlStateUndefinedColumn:
			return &MissingRelationError{Relation: relation, Note: "column does not exist: " + pgErr.Message}
		}
		return err
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "does not exist") && (strings.Contains(msg, "relation") || strings.Contains(msg, "column") || strings.Contains(msg, "table")) {
		return &MissingRelationError{Relation: relation, Note: err.Error()}
	}

	return err
}
