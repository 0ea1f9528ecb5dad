package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvazquezglez/clouddriver/internal/client"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*client.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := client.NewTestClient(server.URL)
	require.NoError(t, err)

	return c, server
}

func TestOrganizationsClient_List(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/organizations", request.URL.Path)
		assert.Equal(t, "GET", request.Method)

		result := cf.ListResponse[cf.Organization]{
			Pagination: cf.Pagination{TotalResults: 2, TotalPages: 1},
			Resources: []cf.Organization{
				{Resource: cf.Resource{GUID: "org-1"}, Name: "staging"},
				{Resource: cf.Resource{GUID: "org-2"}, Name: "production"},
			},
		}
		_ = json.NewEncoder(writer).Encode(result)
	})

	result, err := c.Organizations().List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, result.Resources, 2)
	assert.Equal(t, "staging", result.Resources[0].Name)
}

func TestOrganizationsClient_Get(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/organizations/org-guid", request.URL.Path)

		_ = json.NewEncoder(writer).Encode(cf.Organization{
			Resource: cf.Resource{GUID: "org-guid"},
			Name:     "production",
		})
	})

	org, err := c.Organizations().Get(context.Background(), "org-guid")
	require.NoError(t, err)
	assert.Equal(t, "org-guid", org.GUID)
	assert.Equal(t, "production", org.Name)
}

func TestOrganizationsClient_FindByName(t *testing.T) {
	t.Parallel()
	t.Run("found", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "production", request.URL.Query().Get("names"))

			result := cf.ListResponse[cf.Organization]{
				Resources: []cf.Organization{
					{Resource: cf.Resource{GUID: "org-guid"}, Name: "production"},
				},
			}
			_ = json.NewEncoder(writer).Encode(result)
		})

		org, err := c.Organizations().FindByName(context.Background(), "production")
		require.NoError(t, err)
		assert.Equal(t, "org-guid", org.GUID)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			_ = json.NewEncoder(writer).Encode(cf.ListResponse[cf.Organization]{})
		})

		_, err := c.Organizations().FindByName(context.Background(), "missing")
		require.ErrorIs(t, err, cf.ErrOrganizationNotFound)
		assert.Contains(t, err.Error(), "missing")
	})
}
