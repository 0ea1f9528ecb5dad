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

func TestSpacesClient_FindByName(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/spaces", request.URL.Path)
		assert.Equal(t, "dev", request.URL.Query().Get("names"))
		assert.Equal(t, "org-guid", request.URL.Query().Get("organization_guids"))

		result := cf.ListResponse[cf.Space]{
			Resources: []cf.Space{
				{Resource: cf.Resource{GUID: "space-guid"}, Name: "dev"},
			},
		}
		_ = json.NewEncoder(writer).Encode(result)
	})

	space, err := c.Spaces().FindByName(context.Background(), "org-guid", "dev")
	require.NoError(t, err)
	assert.Equal(t, "space-guid", space.GUID)
}

func TestSpacesClient_FindByNameAndOrganization(t *testing.T) {
	t.Parallel()
	t.Run("resolves the organization first", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			switch request.URL.Path {
			case "/v3/organizations":
				assert.Equal(t, "production", request.URL.Query().Get("names"))

				_ = json.NewEncoder(writer).Encode(cf.ListResponse[cf.Organization]{
					Resources: []cf.Organization{
						{Resource: cf.Resource{GUID: "org-guid"}, Name: "production"},
					},
				})
			case "/v3/spaces":
				assert.Equal(t, "org-guid", request.URL.Query().Get("organization_guids"))

				_ = json.NewEncoder(writer).Encode(cf.ListResponse[cf.Space]{
					Resources: []cf.Space{
						{Resource: cf.Resource{GUID: "space-guid"}, Name: "dev"},
					},
				})
			default:
				writer.WriteHeader(http.StatusNotFound)
			}
		})

		space, err := c.Spaces().FindByNameAndOrganization(context.Background(), "dev", "production")
		require.NoError(t, err)
		assert.Equal(t, "space-guid", space.GUID)
	})

	t.Run("unknown organization short-circuits", func(t *testing.T) {
		t.Parallel()

		spacesQueried := false

		c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path == "/v3/spaces" {
				spacesQueried = true
			}

			_ = json.NewEncoder(writer).Encode(cf.ListResponse[cf.Organization]{})
		})

		_, err := c.Spaces().FindByNameAndOrganization(context.Background(), "dev", "missing")
		require.ErrorIs(t, err, cf.ErrOrganizationNotFound)
		assert.False(t, spacesQueried)
	})
}

func TestSpacesClient_Get(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/spaces/space-guid", request.URL.Path)

		_ = json.NewEncoder(writer).Encode(cf.Space{
			Resource: cf.Resource{GUID: "space-guid"},
			Name:     "dev",
			Relationships: cf.SpaceRelationships{
				Organization: cf.Relationship{Data: &cf.RelationshipData{GUID: "org-guid"}},
			},
		})
	})

	space, err := c.Spaces().Get(context.Background(), "space-guid")
	require.NoError(t, err)
	assert.Equal(t, "dev", space.Name)
	assert.Equal(t, "org-guid", space.Relationships.Organization.Data.GUID)
}
