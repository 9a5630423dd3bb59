package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrReceiverNotFound is returned when an alert receiver does not exist.
	ErrReceiverNotFound = errors.New("alert receiver not found")
	// ErrReceiverNameExists is returned when a receiver name is already taken.
	ErrReceiverNameExists = errors.New("alert receiver name already exists")
)
