package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// TasksClient implements cf.TasksClient.
type TasksClient struct {
	httpClient *cfhttp.Client
	pageSize   int
}

// NewTasksClient creates a new tasks client.
func NewTasksClient(httpClient *cfhttp.Client, pageSize int) *TasksClient {
	return &TasksClient{
		httpClient: httpClient,
		pageSize:   pageSize,
	}
}

// List implements cf.TasksClient.List.
func (c *TasksClient) List(ctx context.Context, params *cf.QueryParams) (*cf.ListResponse[cf.Task], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/v3/tasks", query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	var result cf.ListResponse[cf.Task]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing tasks list response: %w", err)
	}

	return &result, nil
}

// Get implements cf.TasksClient.Get.
func (c *TasksClient) Get(ctx context.Context, guid string) (*cf.Task, error) {
	path := fmt.Sprintf("/v3/tasks/%s", guid)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}

	var task cf.Task
	if err := json.Unmarshal(resp.Body, &task); err != nil {
		return nil, fmt.Errorf("parsing task response: %w", err)
	}

	return &task, nil
}

// Create implements cf.TasksClient.Create by running a one-off command
// against the application's current droplet.
func (c *TasksClient) Create(ctx context.Context, appGUID string, request *cf.TaskCreateRequest) (*cf.Task, error) {
	path := fmt.Sprintf("/v3/apps/%s/tasks", appGUID)

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	var task cf.Task
	if err := json.Unmarshal(resp.Body, &task); err != nil {
		return nil, fmt.Errorf("parsing task response: %w", err)
	}

	return &task, nil
}

// Cancel implements cf.TasksClient.Cancel.
func (c *TasksClient) Cancel(ctx context.Context, guid string) (*cf.Task, error) {
	path := fmt.Sprintf("/v3/tasks/%s/actions/cancel", guid)

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("canceling task: %w", err)
	}

	var task cf.Task
	if err := json.Unmarshal(resp.Body, &task); err != nil {
		return nil, fmt.Errorf("parsing task response: %w", err)
	}

	return &task, nil
}
