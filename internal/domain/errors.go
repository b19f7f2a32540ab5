package domain

import "errors"

var (
	// ErrValidation marks malformed input or configuration values.
	ErrValidation = errors.New("validation error")

	// ErrQueryFailed marks an eligibility query that could not reach the
	// store or got a malformed result. Runs degrade to an empty selection.
	ErrQueryFailed = errors.New("eligibility query failed")
)
