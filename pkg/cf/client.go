package cf

import (
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Client is the facade registry handed to the orchestration layer. Every
// accessor returns a fully constructed facade; a client is never observable
// in a partially built state.
type Client interface {
	Organizations() OrganizationsClient
	Spaces() SpacesClient
	Domains() DomainsClient
	Routes() RoutesClient
	Applications() ApplicationsClient
	ServiceInstances() ServiceInstancesClient
	ServiceKeys() ServiceKeysClient
	Tasks() TasksClient
	Logs() LogsClient
}

// Logger is the structured logging contract used by the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config describes a CF client to construct.
//
// # Host derivation
//
// APIHost is the API endpoint host (e.g. "api.sys.example.com"). The login
// endpoint is derived by replacing the leading "api." with "login.", and the
// log endpoint by replacing it with "doppler.". Hosts without the prefix are
// used as-is for all three.
//
// # TLS trust
//
// SkipTLSValidation disables certificate and hostname verification on every
// transport the client builds. It is an explicit, logged security downgrade
// intended only for private or test endpoints; it is never enabled by
// default or implicitly.
type Config struct {
	// Account names the credential set this client acts for. It tags every
	// metric the transport emits.
	Account string

	// APIHost is the CF API host, with or without a scheme.
	APIHost string

	// User and Secret are exchanged for a bearer token via the password grant.
	User   string
	Secret string

	// UseHTTPS selects the scheme when APIHost carries none. Defaults to true.
	UseHTTPS *bool

	// SkipTLSValidation installs a trust-everything transport. See above.
	SkipTLSValidation bool

	// ResultsPerPage is the page size facades request on list operations.
	ResultsPerPage int

	// RetryMax is the number of retries after the initial attempt for
	// transient failures (502/503/504 and per-attempt timeouts).
	RetryMax int

	// RetryDelay is the fixed wait between retry attempts.
	RetryDelay time.Duration

	// HTTPTimeout bounds each individual attempt. Exceeding it counts as a
	// transient failure against the same retry budget.
	HTTPTimeout time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Debug enables request/response logging when a Logger is set.
	Debug bool

	// Logger receives structured logs from the transport. Optional.
	Logger Logger

	// MeterProvider receives the per-request tagging hook's measurements.
	// Optional; when nil no metrics are recorded.
	MeterProvider metric.MeterProvider

	// Cache optionally configures a read-through cache for GET responses.
	Cache *CacheConfig
}
