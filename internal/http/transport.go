package http

import (
	"crypto/tls"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/rvazquezglez/clouddriver/internal/constants"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// BuildTransport clones the default transport. When skipTLSValidation is
// set, certificate verification is disabled for self-signed platform
// installations and a warning is logged.
func BuildTransport(skipTLSValidation bool, logger cf.Logger) *http.Transport {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		transport = &http.Transport{}
	} else {
		transport = transport.Clone()
	}

	if skipTLSValidation {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // explicit operator opt-in for self-signed installs
		}

		if logger != nil {
			logger.Warn("TLS certificate validation disabled", map[string]interface{}{
				"skip_tls_validation": true,
			})
		}
	}

	return transport
}

// metricsTransport records a duration histogram and a request counter for
// every round trip.
type metricsTransport struct {
	base     http.RoundTripper
	duration metric.Float64Histogram
	requests metric.Int64Counter
	account  string
}

// NewMetricsTransport wraps base with OpenTelemetry instrumentation. Each
// request is tagged with its sanitized URI template, HTTP method, response
// status, account name, and the provider identifier.
func NewMetricsTransport(base http.RoundTripper, provider metric.MeterProvider, account string) http.RoundTripper {
	if provider == nil {
		return base
	}

	if base == nil {
		base = http.DefaultTransport
	}

	meter := provider.Meter("github.com/rvazquezglez/clouddriver/internal/http")

	duration, err := meter.Float64Histogram("cf.api.request.duration",
		metric.WithDescription("API request duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return base
	}

	requests, err := meter.Int64Counter("cf.api.request.count",
		metric.WithDescription("API request count"))
	if err != nil {
		return base
	}

	return &metricsTransport{
		base:     base,
		duration: duration,
		requests: requests,
		account:  account,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.base.RoundTrip(req)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	attrs := metric.WithAttributes(
		attribute.String("uri_template", URITemplate(req.URL.Path)),
		attribute.String("method", req.Method),
		attribute.String("status", strconv.Itoa(status)),
		attribute.String("account", t.account),
		attribute.String("provider", constants.ProviderID),
	)

	t.duration.Record(req.Context(), float64(time.Since(start).Milliseconds()), attrs)
	t.requests.Add(req.Context(), 1, attrs)

	return resp, err
}

// URITemplate collapses identifier path segments so metrics group by
// endpoint rather than by resource: /v3/apps/1a2b.../env becomes
// /v3/apps/-/env.
func URITemplate(path string) string {
	segments := strings.Split(path, "/")

	for i, segment := range segments {
		if isResourceID(segment) {
			segments[i] = "-"
		}
	}

	return strings.Join(segments, "/")
}

// isResourceID reports whether a path segment looks like a GUID or another
// opaque identifier rather than a route literal.
func isResourceID(segment string) bool {
	if len(segment) == 36 && strings.Count(segment, "-") == 4 {
		return true
	}

	// Long hex-ish tokens (task IDs, deployment IDs) also get collapsed.
	if len(segment) >= 24 && !strings.ContainsAny(segment, "_") {
		hexish := true

		for _, r := range segment {
			if (r < '0' || r > '9') && (r < 'a' || r > 'f') && r != '-' {
				hexish = false

				break
			}
		}

		return hexish
	}

	return false
}
