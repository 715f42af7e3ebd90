// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that an admin attempted to touch an
// order or event outside the set of events assigned to them, while
// ErrUsernameExists signals a unique username collision.
package repository

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource outside their scope. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is the common parent of every "row not found" error below.
// Handlers may test for it with errors.Is and translate it into 404.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when inserting a user, admin or
// superadmin whose username is already taken. Handlers translate it
// into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

var (
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)
	ErrAdminNotFound  = fmt.Errorf("admin %w", ErrNotFound)
	ErrEventNotFound  = fmt.Errorf("event %w", ErrNotFound)
	ErrOrderNotFound  = fmt.Errorf("order %w", ErrNotFound)
	ErrSellerNotFound = fmt.Errorf("seller %w", ErrNotFound)
	ErrIntentNotFound = fmt.Errorf("payment intent %w", ErrNotFound)
)
