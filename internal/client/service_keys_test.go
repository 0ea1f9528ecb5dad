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

func TestServiceKeysClient_List_ConstrainsToKeyBindings(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/service_credential_bindings", request.URL.Path)
		assert.Equal(t, "key", request.URL.Query().Get("type"))

		_ = json.NewEncoder(writer).Encode(cf.ListResponse[cf.ServiceKey]{
			Resources: []cf.ServiceKey{
				{Resource: cf.Resource{GUID: "key-guid"}, Name: "my-key", Type: "key"},
			},
		})
	})

	result, err := c.ServiceKeys().List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Resources, 1)
	assert.Equal(t, "my-key", result.Resources[0].Name)
}

func TestServiceKeysClient_Create_DefaultsToKeyType(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		var req cf.ServiceKeyCreateRequest

		_ = json.NewDecoder(request.Body).Decode(&req)
		assert.Equal(t, "key", req.Type)
		assert.Equal(t, "my-key", req.Name)
		assert.Equal(t, "si-guid", req.Relationships.ServiceInstance.Data.GUID)

		writer.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(writer).Encode(cf.ServiceKey{
			Resource: cf.Resource{GUID: "key-guid"},
			Name:     req.Name,
		})
	})

	key, err := c.ServiceKeys().Create(context.Background(), &cf.ServiceKeyCreateRequest{
		Name: "my-key",
		Relationships: cf.ServiceKeyRelationships{
			ServiceInstance: cf.Relationship{Data: &cf.RelationshipData{GUID: "si-guid"}},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "key-guid", key.GUID)
}

func TestServiceKeysClient_GetDetails(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/service_credential_bindings/key-guid/details", request.URL.Path)

		_ = json.NewEncoder(writer).Encode(cf.ServiceKeyDetails{
			Credentials: map[string]interface{}{
				"uri":      "postgres://db.example.com/mydb",
				"username": "admin",
			},
		})
	})

	details, err := c.ServiceKeys().GetDetails(context.Background(), "key-guid")
	require.NoError(t, err)
	assert.Equal(t, "admin", details.Credentials["username"])
}

func TestServiceKeysClient_Delete(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/service_credential_bindings/key-guid", request.URL.Path)
		assert.Equal(t, "DELETE", request.Method)

		writer.WriteHeader(http.StatusAccepted)
	})

	err := c.ServiceKeys().Delete(context.Background(), "key-guid")
	require.NoError(t, err)
}
