package domain

import "errors"

// Contact errors
var (
	ErrContactNotFound = errors.New("contact not found")
	ErrNotContactOwner = errors.New("contact belongs to another user")
)
