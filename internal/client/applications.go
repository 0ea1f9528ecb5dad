package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// ApplicationsClient implements cf.ApplicationsClient.
type ApplicationsClient struct {
	httpClient *cfhttp.Client
	pageSize   int
}

// NewApplicationsClient creates a new applications client.
func NewApplicationsClient(httpClient *cfhttp.Client, pageSize int) *ApplicationsClient {
	return &ApplicationsClient{
		httpClient: httpClient,
		pageSize:   pageSize,
	}
}

// List implements cf.ApplicationsClient.List.
func (c *ApplicationsClient) List(ctx context.Context, params *cf.QueryParams) (*cf.ListResponse[cf.Application], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/v3/apps", query)
	if err != nil {
		return nil, fmt.Errorf("listing apps: %w", err)
	}

	var result cf.ListResponse[cf.Application]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing apps list response: %w", err)
	}

	return &result, nil
}

// Get implements cf.ApplicationsClient.Get.
func (c *ApplicationsClient) Get(ctx context.Context, guid string) (*cf.Application, error) {
	path := fmt.Sprintf("/v3/apps/%s", guid)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting app: %w", err)
	}

	var app cf.Application
	if err := json.Unmarshal(resp.Body, &app); err != nil {
		return nil, fmt.Errorf("parsing app response: %w", err)
	}

	return &app, nil
}

// FindByName implements cf.ApplicationsClient.FindByName.
func (c *ApplicationsClient) FindByName(ctx context.Context, spaceGUID, name string) (*cf.Application, error) {
	params := cf.NewQueryParams().
		WithFilter("names", name).
		WithFilter("space_guids", spaceGUID).
		WithPerPage(c.pageSize)

	result, err := c.List(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(result.Resources) == 0 {
		return nil, fmt.Errorf("%w: %s", cf.ErrApplicationNotFound, name)
	}

	return &result.Resources[0], nil
}

// Create implements cf.ApplicationsClient.Create.
func (c *ApplicationsClient) Create(ctx context.Context, request *cf.ApplicationCreateRequest) (*cf.Application, error) {
	resp, err := c.httpClient.Post(ctx, "/v3/apps", request)
	if err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	var app cf.Application
	if err := json.Unmarshal(resp.Body, &app); err != nil {
		return nil, fmt.Errorf("parsing app response: %w", err)
	}

	return &app, nil
}

// Update implements cf.ApplicationsClient.Update.
func (c *ApplicationsClient) Update(ctx context.Context, guid string, request *cf.ApplicationUpdateRequest) (*cf.Application, error) {
	path := fmt.Sprintf("/v3/apps/%s", guid)

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating app: %w", err)
	}

	var app cf.Application
	if err := json.Unmarshal(resp.Body, &app); err != nil {
		return nil, fmt.Errorf("parsing app response: %w", err)
	}

	return &app, nil
}

// Delete implements cf.ApplicationsClient.Delete.
func (c *ApplicationsClient) Delete(ctx context.Context, guid string) error {
	path := fmt.Sprintf("/v3/apps/%s", guid)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting app: %w", err)
	}

	return nil
}

// Start implements cf.ApplicationsClient.Start.
func (c *ApplicationsClient) Start(ctx context.Context, guid string) (*cf.Application, error) {
	return c.action(ctx, guid, "start")
}

// Stop implements cf.ApplicationsClient.Stop.
func (c *ApplicationsClient) Stop(ctx context.Context, guid string) (*cf.Application, error) {
	return c.action(ctx, guid, "stop")
}

func (c *ApplicationsClient) action(ctx context.Context, guid, action string) (*cf.Application, error) {
	path := fmt.Sprintf("/v3/apps/%s/actions/%s", guid, action)

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("running app %s action: %w", action, err)
	}

	var app cf.Application
	if err := json.Unmarshal(resp.Body, &app); err != nil {
		return nil, fmt.Errorf("parsing app response: %w", err)
	}

	return &app, nil
}

// GetEnv implements cf.ApplicationsClient.GetEnv.
func (c *ApplicationsClient) GetEnv(ctx context.Context, guid string) (*cf.AppEnvironment, error) {
	path := fmt.Sprintf("/v3/apps/%s/env", guid)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting app environment: %w", err)
	}

	var env cf.AppEnvironment
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing app environment response: %w", err)
	}

	return &env, nil
}
