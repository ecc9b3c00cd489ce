package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrRateLimited       = errors.New("rate limited")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidScanParams = errors.New("invalid scan parameters")
	ErrInvalidPolicy     = errors.New("invalid policy configuration")
	ErrSourceUnavailable = errors.New("listing source unavailable")
)
