package constants

import "time"

// HTTP constants
const (
	// APIPrefix is the versioned route group every graph endpoint lives under
	APIPrefix = "/api/v1"

	// RequestIDHeader carries the per-request correlation id
	RequestIDHeader = "X-Request-ID"
)

// Graph lifecycle constants
const (
	// StartupRetryInterval bounds how often an unavailable graph store
	// re-attempts its startup checks
	StartupRetryInterval = 5 * time.Second

	// StartupTimeout bounds a single round of startup checks
	StartupTimeout = 10 * time.Second
)
