package server

import "errors"

// Configuration errors returned by ServerContext assembly.
var (
	ErrMissingProvider = errors.New("connection provider is required")
	ErrMissingLogger   = errors.New("logger cannot be nil")
	ErrMissingConfig   = errors.New("config cannot be nil")
	ErrMissingBus      = errors.New("event bus cannot be nil")
)
