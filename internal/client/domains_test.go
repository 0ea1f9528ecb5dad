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

func TestDomainsClient_FindByName(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/domains", request.URL.Path)
		assert.Equal(t, "apps.example.com", request.URL.Query().Get("names"))

		_ = json.NewEncoder(writer).Encode(cf.ListResponse[cf.Domain]{
			Resources: []cf.Domain{
				{Resource: cf.Resource{GUID: "domain-guid"}, Name: "apps.example.com"},
			},
		})
	})

	domain, err := c.Domains().FindByName(context.Background(), "apps.example.com")
	require.NoError(t, err)
	assert.Equal(t, "domain-guid", domain.GUID)
}

func TestDomainsClient_FindByName_NotFound(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		_ = json.NewEncoder(writer).Encode(cf.ListResponse[cf.Domain]{})
	})

	_, err := c.Domains().FindByName(context.Background(), "nowhere.example.com")
	require.ErrorIs(t, err, cf.ErrDomainNotFound)
}

func TestDomainsClient_ListForOrganization(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/organizations/org-guid/domains", request.URL.Path)

		_ = json.NewEncoder(writer).Encode(cf.ListResponse[cf.Domain]{
			Resources: []cf.Domain{
				{Resource: cf.Resource{GUID: "domain-guid"}, Name: "apps.example.com"},
				{Resource: cf.Resource{GUID: "internal-guid"}, Name: "apps.internal", Internal: true},
			},
		})
	})

	result, err := c.Domains().ListForOrganization(context.Background(), "org-guid", nil)
	require.NoError(t, err)
	require.Len(t, result.Resources, 2)
	assert.True(t, result.Resources[1].Internal)
}
