package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// ServiceInstancesClient implements cf.ServiceInstancesClient.
type ServiceInstancesClient struct {
	httpClient *cfhttp.Client
	pageSize   int
}

// NewServiceInstancesClient creates a new service instances client.
func NewServiceInstancesClient(httpClient *cfhttp.Client, pageSize int) *ServiceInstancesClient {
	return &ServiceInstancesClient{
		httpClient: httpClient,
		pageSize:   pageSize,
	}
}

// List implements cf.ServiceInstancesClient.List.
func (c *ServiceInstancesClient) List(ctx context.Context, params *cf.QueryParams) (*cf.ListResponse[cf.ServiceInstance], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/v3/service_instances", query)
	if err != nil {
		return nil, fmt.Errorf("listing service instances: %w", err)
	}

	var result cf.ListResponse[cf.ServiceInstance]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing service instances list response: %w", err)
	}

	return &result, nil
}

// Get implements cf.ServiceInstancesClient.Get.
func (c *ServiceInstancesClient) Get(ctx context.Context, guid string) (*cf.ServiceInstance, error) {
	path := fmt.Sprintf("/v3/service_instances/%s", guid)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting service instance: %w", err)
	}

	var instance cf.ServiceInstance
	if err := json.Unmarshal(resp.Body, &instance); err != nil {
		return nil, fmt.Errorf("parsing service instance response: %w", err)
	}

	return &instance, nil
}

// FindByName implements cf.ServiceInstancesClient.FindByName.
func (c *ServiceInstancesClient) FindByName(ctx context.Context, spaceGUID, name string) (*cf.ServiceInstance, error) {
	params := cf.NewQueryParams().
		WithFilter("names", name).
		WithFilter("space_guids", spaceGUID).
		WithPerPage(c.pageSize)

	result, err := c.List(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(result.Resources) == 0 {
		return nil, fmt.Errorf("%w: %s", cf.ErrServiceInstanceNotFound, name)
	}

	return &result.Resources[0], nil
}

// Create implements cf.ServiceInstancesClient.Create.
func (c *ServiceInstancesClient) Create(ctx context.Context, request *cf.ServiceInstanceCreateRequest) (*cf.ServiceInstance, error) {
	resp, err := c.httpClient.Post(ctx, "/v3/service_instances", request)
	if err != nil {
		return nil, fmt.Errorf("creating service instance: %w", err)
	}

	// Managed instances provision asynchronously and return a job
	// reference instead of the resource.
	var instance cf.ServiceInstance
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &instance); err != nil {
			return nil, fmt.Errorf("parsing service instance response: %w", err)
		}
	}

	return &instance, nil
}

// Delete implements cf.ServiceInstancesClient.Delete.
func (c *ServiceInstancesClient) Delete(ctx context.Context, guid string) error {
	path := fmt.Sprintf("/v3/service_instances/%s", guid)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting service instance: %w", err)
	}

	return nil
}
