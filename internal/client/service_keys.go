package client

import (
	"context"
	"encoding/json"
	"fmt"

	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// ServiceKeysClient implements cf.ServiceKeysClient on top of the
// credential bindings endpoint, constrained to key-type bindings.
type ServiceKeysClient struct {
	httpClient *cfhttp.Client
	pageSize   int
}

// NewServiceKeysClient creates a new service keys client.
func NewServiceKeysClient(httpClient *cfhttp.Client, pageSize int) *ServiceKeysClient {
	return &ServiceKeysClient{
		httpClient: httpClient,
		pageSize:   pageSize,
	}
}

// List implements cf.ServiceKeysClient.List.
func (c *ServiceKeysClient) List(ctx context.Context, params *cf.QueryParams) (*cf.ListResponse[cf.ServiceKey], error) {
	if params == nil {
		params = cf.NewQueryParams()
	}

	query := params.ToValues()
	query.Set("type", "key")

	resp, err := c.httpClient.Get(ctx, "/v3/service_credential_bindings", query)
	if err != nil {
		return nil, fmt.Errorf("listing service keys: %w", err)
	}

	var result cf.ListResponse[cf.ServiceKey]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing service keys list response: %w", err)
	}

	return &result, nil
}

// Get implements cf.ServiceKeysClient.Get.
func (c *ServiceKeysClient) Get(ctx context.Context, guid string) (*cf.ServiceKey, error) {
	path := fmt.Sprintf("/v3/service_credential_bindings/%s", guid)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting service key: %w", err)
	}

	var key cf.ServiceKey
	if err := json.Unmarshal(resp.Body, &key); err != nil {
		return nil, fmt.Errorf("parsing service key response: %w", err)
	}

	return &key, nil
}

// Create implements cf.ServiceKeysClient.Create.
func (c *ServiceKeysClient) Create(ctx context.Context, request *cf.ServiceKeyCreateRequest) (*cf.ServiceKey, error) {
	if request.Type == "" {
		request.Type = "key"
	}

	resp, err := c.httpClient.Post(ctx, "/v3/service_credential_bindings", request)
	if err != nil {
		return nil, fmt.Errorf("creating service key: %w", err)
	}

	var key cf.ServiceKey
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &key); err != nil {
			return nil, fmt.Errorf("parsing service key response: %w", err)
		}
	}

	return &key, nil
}

// Delete implements cf.ServiceKeysClient.Delete.
func (c *ServiceKeysClient) Delete(ctx context.Context, guid string) error {
	path := fmt.Sprintf("/v3/service_credential_bindings/%s", guid)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting service key: %w", err)
	}

	return nil
}

// GetDetails implements cf.ServiceKeysClient.GetDetails.
func (c *ServiceKeysClient) GetDetails(ctx context.Context, guid string) (*cf.ServiceKeyDetails, error) {
	path := fmt.Sprintf("/v3/service_credential_bindings/%s/details", guid)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting service key details: %w", err)
	}

	var details cf.ServiceKeyDetails
	if err := json.Unmarshal(resp.Body, &details); err != nil {
		return nil, fmt.Errorf("parsing service key details response: %w", err)
	}

	return &details, nil
}
