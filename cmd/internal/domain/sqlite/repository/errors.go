package repository

import "errors"

var (
	// ErrDuplicateIdentity is returned when a username or email is already taken.
	ErrDuplicateIdentity = errors.New("duplicate identity")
	// ErrAlreadyShared is returned when a note is already shared with a user.
	ErrAlreadyShared = errors.New("note already shared with user")
)
