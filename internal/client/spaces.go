package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// SpacesClient implements cf.SpacesClient.
type SpacesClient struct {
	httpClient    *cfhttp.Client
	organizations cf.OrganizationsClient
	pageSize      int
}

// NewSpacesClient creates a new spaces client. The organizations facade
// resolves organization names during space lookups.
func NewSpacesClient(httpClient *cfhttp.Client, organizations cf.OrganizationsClient, pageSize int) *SpacesClient {
	return &SpacesClient{
		httpClient:    httpClient,
		organizations: organizations,
		pageSize:      pageSize,
	}
}

// List implements cf.SpacesClient.List.
func (c *SpacesClient) List(ctx context.Context, params *cf.QueryParams) (*cf.ListResponse[cf.Space], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/v3/spaces", query)
	if err != nil {
		return nil, fmt.Errorf("listing spaces: %w", err)
	}

	var result cf.ListResponse[cf.Space]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing spaces list response: %w", err)
	}

	return &result, nil
}

// Get implements cf.SpacesClient.Get.
func (c *SpacesClient) Get(ctx context.Context, guid string) (*cf.Space, error) {
	path := fmt.Sprintf("/v3/spaces/%s", guid)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting space: %w", err)
	}

	var space cf.Space
	if err := json.Unmarshal(resp.Body, &space); err != nil {
		return nil, fmt.Errorf("parsing space response: %w", err)
	}

	return &space, nil
}

// FindByName implements cf.SpacesClient.FindByName.
func (c *SpacesClient) FindByName(ctx context.Context, orgGUID, name string) (*cf.Space, error) {
	params := cf.NewQueryParams().
		WithFilter("names", name).
		WithFilter("organization_guids", orgGUID).
		WithPerPage(c.pageSize)

	result, err := c.List(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(result.Resources) == 0 {
		return nil, fmt.Errorf("%w: %s", cf.ErrSpaceNotFound, name)
	}

	return &result.Resources[0], nil
}

// FindByNameAndOrganization implements cf.SpacesClient.FindByNameAndOrganization.
func (c *SpacesClient) FindByNameAndOrganization(ctx context.Context, spaceName, orgName string) (*cf.Space, error) {
	org, err := c.organizations.FindByName(ctx, orgName)
	if err != nil {
		return nil, err
	}

	return c.FindByName(ctx, org.GUID, spaceName)
}
