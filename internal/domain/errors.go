package domain

import "errors"

var (
	ErrAppNotFound   = errors.New("application not found")
	ErrAppExists     = errors.New("application already exists")
	ErrOrderMismatch = errors.New("order does not match configured applications")
	ErrCardCollision = errors.New("application name collides with an existing entry")
	ErrInvalidPort   = errors.New("invalid port number")
)
