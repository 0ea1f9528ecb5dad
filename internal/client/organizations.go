package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// OrganizationsClient implements cf.OrganizationsClient.
type OrganizationsClient struct {
	httpClient *cfhttp.Client
	pageSize   int
}

// NewOrganizationsClient creates a new organizations client.
func NewOrganizationsClient(httpClient *cfhttp.Client, pageSize int) *OrganizationsClient {
	return &OrganizationsClient{
		httpClient: httpClient,
		pageSize:   pageSize,
	}
}

// List implements cf.OrganizationsClient.List.
func (c *OrganizationsClient) List(ctx context.Context, params *cf.QueryParams) (*cf.ListResponse[cf.Organization], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/v3/organizations", query)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}

	var result cf.ListResponse[cf.Organization]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing organizations list response: %w", err)
	}

	return &result, nil
}

// Get implements cf.OrganizationsClient.Get.
func (c *OrganizationsClient) Get(ctx context.Context, guid string) (*cf.Organization, error) {
	path := fmt.Sprintf("/v3/organizations/%s", guid)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting organization: %w", err)
	}

	var org cf.Organization
	if err := json.Unmarshal(resp.Body, &org); err != nil {
		return nil, fmt.Errorf("parsing organization response: %w", err)
	}

	return &org, nil
}

// FindByName implements cf.OrganizationsClient.FindByName.
func (c *OrganizationsClient) FindByName(ctx context.Context, name string) (*cf.Organization, error) {
	params := cf.NewQueryParams().
		WithFilter("names", name).
		WithPerPage(c.pageSize)

	result, err := c.List(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(result.Resources) == 0 {
		return nil, fmt.Errorf("%w: %s", cf.ErrOrganizationNotFound, name)
	}

	return &result.Resources[0], nil
}
