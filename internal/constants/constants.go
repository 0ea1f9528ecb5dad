package constants

import "time"

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout bounds a single request attempt, including the
	// connection setup. Exceeding it is treated as a transient failure.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as login exchanges.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry policy defaults.
const (
	// DefaultRetryMax is the number of retries after the initial attempt.
	DefaultRetryMax = 2

	// DefaultRetryDelay is the fixed wait between retry attempts.
	DefaultRetryDelay = 500 * time.Millisecond

	// MaxRetryDelay caps the wait between retries regardless of configuration.
	MaxRetryDelay = 10 * time.Second
)

// Token handling.
const (
	// TokenExpirationBuffer is subtracted from a token's lifetime so a
	// credential is refreshed before the platform actually rejects it.
	TokenExpirationBuffer = 30 * time.Second

	// DefaultClientID is the OAuth2 client used for the password grant.
	DefaultClientID = "cf"
)

// Pagination.
const (
	// DefaultResultsPerPage is used when the caller does not configure one.
	DefaultResultsPerPage = 100

	// StandardPageSize is the page size the CLI requests by default.
	StandardPageSize = 50

	// MaxPages prevents unbounded pagination loops.
	MaxPages = 50
)

// Cache defaults.
const (
	// DefaultCacheSize is the in-memory cache entry limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default time-to-live for cached responses.
	DefaultCacheTTL = 5 * time.Minute
)

// ProviderID tags every metric emitted by the transport.
const ProviderID = "cloudfoundry"
