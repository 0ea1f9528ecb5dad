package client

import (
	"github.com/rvazquezglez/clouddriver/internal/constants"
	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
)

// NewTestClient creates a client without authentication, with every facade
// bound to baseURL. Intended for tests against httptest servers.
func NewTestClient(baseURL string) (*Client, error) {
	httpClient := cfhttp.NewClient(baseURL, nil, cfhttp.WithRetryConfig(0, 0, 0))

	client := &Client{
		registry: newRegistry(),
	}

	builders := facadeBuilders(httpClient, httpClient, constants.DefaultResultsPerPage)
	if err := client.registry.install(builders); err != nil {
		return nil, err
	}

	return client, nil
}
