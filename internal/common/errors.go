// Package common defines shared sentinel errors used across the taskboard
// server, its storage backends and the admin console. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Request shape errors (missing or malformed fields).
	ErrorValidation = errors.New("validation error")

	// ErrorStorage marks any failure of the durable snapshot: I/O, driver
	// errors, malformed persisted data.
	ErrorStorage = errors.New("storage failure")
)
