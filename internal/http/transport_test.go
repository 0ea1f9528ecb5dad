package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
)

func TestBuildTransport_TrustsSelfSignedWhenOptedIn(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	logger := &MockLogger{}
	client := cfhttp.NewClient(server.URL, nil,
		cfhttp.WithTransport(cfhttp.BuildTransport(true, logger)))

	resp, err := client.Get(context.Background(), "/", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// Disabling verification is loud.
	require.NotEmpty(t, logger.logs)
	assert.Equal(t, "TLS certificate validation disabled", logger.logs[0]["msg"])
}

func TestBuildTransport_RejectsSelfSignedByDefault(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := cfhttp.NewClient(server.URL, nil,
		cfhttp.WithTransport(cfhttp.BuildTransport(false, nil)),
		cfhttp.WithRetryConfig(0, 0, 0))

	_, err := client.Get(context.Background(), "/", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "certificate")
}

func TestNewMetricsTransport_RecordsRequests(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	client := cfhttp.NewClient(server.URL, nil,
		cfhttp.WithTransport(cfhttp.NewMetricsTransport(nil, provider, "my-account")))

	_, err := client.Get(context.Background(), "/v3/apps", nil)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.NotEmpty(t, rm.ScopeMetrics)

	names := make([]string, 0, 2)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names = append(names, m.Name)
	}

	assert.Contains(t, names, "cf.api.request.duration")
	assert.Contains(t, names, "cf.api.request.count")
}

func TestNewMetricsTransport_NilProviderPassesThrough(t *testing.T) {
	t.Parallel()

	base := http.DefaultTransport
	assert.Equal(t, base, cfhttp.NewMetricsTransport(base, nil, "acct"))
}

func TestURITemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "collapses GUID segments",
			path:     "/v3/apps/1a2b3c4d-5e6f-7081-92a3-b4c5d6e7f809/env",
			expected: "/v3/apps/-/env",
		},
		{
			name:     "leaves route literals alone",
			path:     "/v3/organizations",
			expected: "/v3/organizations",
		},
		{
			name:     "collapses multiple identifiers",
			path:     "/v3/spaces/0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9/routes/ffffffff-0000-1111-2222-333333333333",
			expected: "/v3/spaces/-/routes/-",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, cfhttp.URITemplate(tt.path))
		})
	}
}
