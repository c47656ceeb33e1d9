package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session lookup misses.
	ErrSessionNotFound = errors.New("session not found")

	// ErrMessageNotFound is returned when a message lookup misses.
	ErrMessageNotFound = errors.New("message not found")

	// ErrInvalidDateRange is returned when end_date precedes start_date.
	ErrInvalidDateRange = errors.New("invalid date range: end_date cannot be earlier than start_date")
)
