package config

import "errors"

// Sentinel errors for configuration validation.
var (
	ErrNoClaims      = errors.New("at least one claim descriptor is required")
	ErrBadClaimRef   = errors.New("malformed claim descriptor")
	ErrNoOutputDir   = errors.New("output directory is required")
	ErrBadPendingFor = errors.New("invalid pending duration")
)
