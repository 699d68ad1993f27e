package service

import (
	"errors"

	"directory-service/internal/repository"
)

// Kind classifies a service failure. The HTTP layer maps each kind to a status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a classified failure that is safe to show to clients.
// Field names the offending input, if any.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors of the same kind and message so that copies compare equal
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	ErrMissingContact             = &Error{Kind: KindValidation, Field: "contact", Message: "missing contact"}
	ErrDuplicateEmail             = &Error{Kind: KindValidation, Field: "email", Message: "duplicate email"}
	ErrDuplicatePhone             = &Error{Kind: KindValidation, Field: "phone", Message: "duplicate phone"}
	ErrDuplicatePartnershipNumber = &Error{Kind: KindValidation, Field: "partnership_number", Message: "duplicate partnership number"}
	ErrInvalidUserType            = &Error{Kind: KindValidation, Field: "user_type", Message: "invalid user type"}
	ErrWeakPassword               = &Error{Kind: KindValidation, Field: "password", Message: "password must be at least 6 characters"}
	ErrWrongPassword              = &Error{Kind: KindValidation, Field: "current_password", Message: "wrong password"}
	ErrUnknownCategory            = &Error{Kind: KindValidation, Field: "category_id", Message: "unknown category"}
	ErrMissingName                = &Error{Kind: KindValidation, Field: "name", Message: "name is required"}
	ErrInvalidRating              = &Error{Kind: KindValidation, Field: "rating", Message: "rating must be between 0 and 5"}
	ErrInvalidOrdering            = &Error{Kind: KindValidation, Field: "ordering", Message: "invalid ordering"}

	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "invalid credentials"}
	ErrInvalidToken       = &Error{Kind: KindAuthentication, Message: "invalid token"}

	ErrForbidden = &Error{Kind: KindAuthorization, Message: "forbidden"}
	// ErrNotOwner is raised by ownership checks and compares equal to ErrForbidden
	ErrNotOwner = &Error{Kind: KindAuthorization, Message: "forbidden"}

	ErrBusinessNotFound = &Error{Kind: KindNotFound, Message: "business not found"}
	ErrFavoriteNotFound = &Error{Kind: KindNotFound, Message: "favorite not found"}
	ErrUserNotFound     = &Error{Kind: KindNotFound, Message: "user not found"}

	ErrAlreadyFavorited = &Error{Kind: KindConflict, Message: "already favorited"}
)

// KindOf returns the kind of a service error, or 0 for anything else
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// userDuplicate converts a unique violation on the users table into its
// validation error
func userDuplicate(err error) (*Error, bool) {
	switch {
	case repository.IsDuplicate(err, "email"):
		return ErrDuplicateEmail, true
	case repository.IsDuplicate(err, "phone"):
		return ErrDuplicatePhone, true
	case repository.IsDuplicate(err, "partnership_number"):
		return ErrDuplicatePartnershipNumber, true
	}
	return nil, false
}
