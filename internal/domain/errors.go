package domain

import (
	"errors"
	"strings"
)

// Lookup errors. Scope misses and true absence share the same error on
// purpose: a caller outside the owning tenant must not be able to tell the
// difference.
var (
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrTodoNotFound     = errors.New("todo not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Authentication and authorization errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotTenantMember    = errors.New("user does not belong to this tenant")
	ErrForbidden          = errors.New("insufficient permissions")
)

// Uniqueness and provisioning errors
var (
	ErrSlugTaken        = errors.New("tenant slug already exists")
	ErrEmailTaken       = errors.New("email already exists")
	ErrInviteKeyInvalid = errors.New("invalid or already used invite key")
)

// FieldError describes a single per-field validation issue.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// FieldErrors is a validation failure carrying one issue per offending field.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Path + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AsFieldErrors unwraps err into FieldErrors if it is one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
