package config

import "time"

// Default values applied before the .env file and environment variables are
// layered on top.
const (
	// DefaultMaxIterations bounds the JSON unwrap loop per record.
	DefaultMaxIterations = 10

	// DefaultPageSize is the NetBox list page size.
	DefaultPageSize = 50

	// DefaultMaxRetries applies to list requests only; updates get exactly
	// one attempt per record.
	DefaultMaxRetries = 3

	// DefaultInitialBackoff seeds the exponential backoff for list retries.
	DefaultInitialBackoff = 1 * time.Second

	// DefaultRequestTimeout is the per-request HTTP timeout.
	DefaultRequestTimeout = 30 * time.Second
)
