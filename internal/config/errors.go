package config

import "errors"

var (
	ErrProviderNotFound    = errors.New("provider definition not found")
	ErrInvalidProviderName = errors.New("invalid provider name")
	ErrProviderNotTracked  = errors.New("settings have no tracking block for provider")
	ErrInvalidConfig       = errors.New("invalid configuration")
)
