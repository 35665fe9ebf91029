// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr translates PostgreSQL errors into application errors.
//
// Stores call [Wrap] on every query error. Uniqueness and foreign-key
// violations are surfaced as [*Violation] so the caller can decide which field
// to blame; everything else is either NOT_FOUND or an internal error.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// Violation describes a constraint violation reported by PostgreSQL.
type Violation struct {
	// Code is the SQLSTATE (23505 unique, 23503 foreign key).
	Code string
	// Constraint is the name of the violated constraint or index.
	Constraint string
	cause      error
}

func (v *Violation) Error() string {
	return fmt.Sprintf("constraint %s violated (%s)", v.Constraint, v.Code)
}

func (v *Violation) Unwrap() error { return v.cause }

// Unique reports whether the violation is a unique-constraint violation.
func (v *Violation) Unique() bool { return v.Code == pgerrcode.UniqueViolation }

// ForeignKey reports whether the violation is a foreign-key violation.
func (v *Violation) ForeignKey() bool { return v.Code == pgerrcode.ForeignKeyViolation }

// Wrap inspects a database error and classifies it.
//
//   - [pgx.ErrNoRows] becomes NOT_FOUND for resource.
//   - 23505 and 23503 become a [*Violation].
//   - Anything else becomes an internal error naming the action.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation, pgerrcode.ForeignKeyViolation:
			return &Violation{Code: pgError.Code, Constraint: pgError.ConstraintName, cause: err}
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// AsViolation extracts a [*Violation] from err's chain.
func AsViolation(err error) (*Violation, bool) {
	var violation *Violation
	if errors.As(err, &violation) {
		return violation, true
	}
	return nil, false
}

// IsUnique reports whether err is a unique violation of the named constraint.
// An empty constraint matches any unique violation.
func IsUnique(err error, constraint string) bool {
	violation, ok := AsViolation(err)
	if !ok || !violation.Unique() {
		return false
	}
	return constraint == "" || violation.Constraint == constraint
}

// IsForeignKey reports whether err is a foreign-key violation of the named
// constraint. An empty constraint matches any foreign-key violation.
func IsForeignKey(err error, constraint string) bool {
	violation, ok := AsViolation(err)
	if !ok || !violation.ForeignKey() {
		return false
	}
	return constraint == "" || violation.Constraint == constraint
}
