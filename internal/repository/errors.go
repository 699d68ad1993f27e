package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// ErrInvalidReference is returned when a foreign key points at a missing row
var ErrInvalidReference = errors.New("invalid reference")

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// constraintFields maps unique constraint names from the migrations to the
// field they protect
var constraintFields = map[string]string{
	"users_partnership_number_key": "partnership_number",
	"users_email_key":              "email",
	"users_phone_key":              "phone",
	"categories_name_key":          "name",
	"categories_slug_key":          "slug",
	"favorites_user_business_key":  "favorite",
}

// DuplicateKeyError reports a unique constraint violation raised by the database
type DuplicateKeyError struct {
	Constraint string
	Field      string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value for %s (%s)", e.Field, e.Constraint)
}

// IsDuplicate reports whether err is a DuplicateKeyError on field
func IsDuplicate(err error, field string) bool {
	var dup *DuplicateKeyError
	return errors.As(err, &dup) && dup.Field == field
}

// translateError converts driver and gorm errors into repository errors.
// Anything unrecognised is returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			field, ok := constraintFields[pgErr.ConstraintName]
			if !ok {
				field = pgErr.ConstraintName
			}
			return &DuplicateKeyError{Constraint: pgErr.ConstraintName, Field: field}
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
		}
	}

	return err
}
