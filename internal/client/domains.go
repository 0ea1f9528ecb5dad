package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// DomainsClient implements cf.DomainsClient.
type DomainsClient struct {
	httpClient *cfhttp.Client
	pageSize   int
}

// NewDomainsClient creates a new domains client.
func NewDomainsClient(httpClient *cfhttp.Client, pageSize int) *DomainsClient {
	return &DomainsClient{
		httpClient: httpClient,
		pageSize:   pageSize,
	}
}

// List implements cf.DomainsClient.List.
func (c *DomainsClient) List(ctx context.Context, params *cf.QueryParams) (*cf.ListResponse[cf.Domain], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/v3/domains", query)
	if err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}

	var result cf.ListResponse[cf.Domain]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing domains list response: %w", err)
	}

	return &result, nil
}

// Get implements cf.DomainsClient.Get.
func (c *DomainsClient) Get(ctx context.Context, guid string) (*cf.Domain, error) {
	path := fmt.Sprintf("/v3/domains/%s", guid)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting domain: %w", err)
	}

	var domain cf.Domain
	if err := json.Unmarshal(resp.Body, &domain); err != nil {
		return nil, fmt.Errorf("parsing domain response: %w", err)
	}

	return &domain, nil
}

// FindByName implements cf.DomainsClient.FindByName.
func (c *DomainsClient) FindByName(ctx context.Context, name string) (*cf.Domain, error) {
	params := cf.NewQueryParams().
		WithFilter("names", name).
		WithPerPage(c.pageSize)

	result, err := c.List(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(result.Resources) == 0 {
		return nil, fmt.Errorf("%w: %s", cf.ErrDomainNotFound, name)
	}

	return &result.Resources[0], nil
}

// ListForOrganization implements cf.DomainsClient.ListForOrganization.
func (c *DomainsClient) ListForOrganization(ctx context.Context, orgGUID string, params *cf.QueryParams) (*cf.ListResponse[cf.Domain], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	path := fmt.Sprintf("/v3/organizations/%s/domains", orgGUID)

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing organization domains: %w", err)
	}

	var result cf.ListResponse[cf.Domain]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing domains list response: %w", err)
	}

	return &result, nil
}
