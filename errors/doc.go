// Package errors provides the structured error type shared by the
// container module. Every failure surfaced by the registry is an *AppError
// carrying a machine-readable code (NOT_FOUND, INVALID_ARGUMENT, ...) and an
// HTTP status used by the admin API.
package errors
