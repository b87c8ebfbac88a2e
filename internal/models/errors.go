package models

import "errors"

var (
	// ErrInvalidURL is returned when a target URL is not a well-formed absolute URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidPath is returned when a custom path contains characters outside [A-Za-z0-9_-].
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidInput is returned when required input is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPathTaken is returned when a custom path is already in use.
	ErrPathTaken = errors.New("path taken")
	// ErrLinkNotFound is returned when no link exists at the given path.
	ErrLinkNotFound = errors.New("link not found")
)
