package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

func TestTasksClient_Create(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/apps/app-guid/tasks", request.URL.Path)
		assert.Equal(t, "POST", request.Method)

		var req cf.TaskCreateRequest

		_ = json.NewDecoder(request.Body).Decode(&req)
		assert.Equal(t, "rake db:migrate", req.Command)

		writer.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(writer).Encode(cf.Task{
			Resource: cf.Resource{GUID: "task-guid"},
			Command:  req.Command,
			State:    cf.TaskStatePending,
		})
	})

	task, err := c.Tasks().Create(context.Background(), "app-guid", &cf.TaskCreateRequest{
		Command: "rake db:migrate",
	})

	require.NoError(t, err)
	assert.Equal(t, "task-guid", task.GUID)
	assert.Equal(t, cf.TaskStatePending, task.State)
}

func TestTasksClient_Get(t *testing.T) {
	t.Parallel()

	failure := "out of memory"

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/tasks/task-guid", request.URL.Path)

		_ = json.NewEncoder(writer).Encode(cf.Task{
			Resource: cf.Resource{GUID: "task-guid"},
			State:    cf.TaskStateFailed,
			Result:   cf.TaskResult{FailureReason: &failure},
		})
	})

	task, err := c.Tasks().Get(context.Background(), "task-guid")
	require.NoError(t, err)
	assert.Equal(t, cf.TaskStateFailed, task.State)
	require.NotNil(t, task.Result.FailureReason)
	assert.Equal(t, "out of memory", *task.Result.FailureReason)
}

func TestTasksClient_Cancel(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/tasks/task-guid/actions/cancel", request.URL.Path)
		assert.Equal(t, "POST", request.Method)

		_ = json.NewEncoder(writer).Encode(cf.Task{
			Resource: cf.Resource{GUID: "task-guid"},
			State:    cf.TaskStateFailed,
		})
	})

	task, err := c.Tasks().Cancel(context.Background(), "task-guid")
	require.NoError(t, err)
	assert.Equal(t, "task-guid", task.GUID)
}
