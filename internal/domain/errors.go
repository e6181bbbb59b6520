package domain

import "errors"

// Store errors
var (
	// ErrValidation indicates a rejected name or move target
	ErrValidation = errors.New("validation failed")

	// ErrCollision indicates the destination already exists
	ErrCollision = errors.New("destination already exists")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrCorruptData indicates a malformed credential blob or index file
	ErrCorruptData = errors.New("corrupt data")

	// ErrIO indicates a disk-level failure during a mutating operation
	ErrIO = errors.New("io failure")
)

// Credential errors
var (
	// ErrWrongPassword indicates the candidate password failed verification
	ErrWrongPassword = errors.New("wrong password")

	// ErrPasswordTooShort indicates the password violates the length policy
	ErrPasswordTooShort = errors.New("password too short")
)

// Config errors
var (
	// ErrConfigNotFound indicates config file not found
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates config file is malformed
	ErrConfigInvalid = errors.New("invalid config")
)
