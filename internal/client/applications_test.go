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

func TestApplicationsClient_Create(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/apps", request.URL.Path)
		assert.Equal(t, "POST", request.Method)

		var req cf.ApplicationCreateRequest

		_ = json.NewDecoder(request.Body).Decode(&req)
		assert.Equal(t, "web-app", req.Name)
		assert.Equal(t, "space-guid", req.Relationships.Space.Data.GUID)

		writer.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(writer).Encode(cf.Application{
			Resource: cf.Resource{GUID: "app-guid"},
			Name:     req.Name,
			State:    "STOPPED",
		})
	})

	app, err := c.Applications().Create(context.Background(), &cf.ApplicationCreateRequest{
		Name: "web-app",
		Relationships: cf.ApplicationRelationships{
			Space: cf.Relationship{Data: &cf.RelationshipData{GUID: "space-guid"}},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "app-guid", app.GUID)
	assert.Equal(t, "STOPPED", app.State)
}

func TestApplicationsClient_StartStop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  string
		state string
	}{
		{
			name:  "start",
			path:  "/v3/apps/app-guid/actions/start",
			state: "STARTED",
		},
		{
			name:  "stop",
			path:  "/v3/apps/app-guid/actions/stop",
			state: "STOPPED",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, tt.path, request.URL.Path)
				assert.Equal(t, "POST", request.Method)

				_ = json.NewEncoder(writer).Encode(cf.Application{
					Resource: cf.Resource{GUID: "app-guid"},
					State:    tt.state,
				})
			})

			var (
				app *cf.Application
				err error
			)

			if tt.name == "start" {
				app, err = c.Applications().Start(context.Background(), "app-guid")
			} else {
				app, err = c.Applications().Stop(context.Background(), "app-guid")
			}

			require.NoError(t, err)
			assert.Equal(t, tt.state, app.State)
		})
	}
}

func TestApplicationsClient_FindByName_NotFound(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "missing-app", request.URL.Query().Get("names"))
		assert.Equal(t, "space-guid", request.URL.Query().Get("space_guids"))

		_ = json.NewEncoder(writer).Encode(cf.ListResponse[cf.Application]{})
	})

	_, err := c.Applications().FindByName(context.Background(), "space-guid", "missing-app")
	require.ErrorIs(t, err, cf.ErrApplicationNotFound)
}

func TestApplicationsClient_GetEnv(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/apps/app-guid/env", request.URL.Path)

		_ = json.NewEncoder(writer).Encode(cf.AppEnvironment{
			EnvironmentVariables: map[string]interface{}{"RAILS_ENV": "production"},
			SystemEnvJSON: map[string]interface{}{
				"VCAP_SERVICES": map[string]interface{}{},
			},
		})
	})

	env, err := c.Applications().GetEnv(context.Background(), "app-guid")
	require.NoError(t, err)
	assert.Equal(t, "production", env.EnvironmentVariables["RAILS_ENV"])
	assert.Contains(t, env.SystemEnvJSON, "VCAP_SERVICES")
}

func TestApplicationsClient_Delete(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/apps/app-guid", request.URL.Path)
		assert.Equal(t, "DELETE", request.Method)

		writer.WriteHeader(http.StatusAccepted)
	})

	err := c.Applications().Delete(context.Background(), "app-guid")
	require.NoError(t, err)
}
