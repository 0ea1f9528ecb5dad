package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *cf.Config
		wantErr error
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: cf.ErrConfigRequired,
		},
		{
			name:    "missing API host",
			config:  &cf.Config{User: "u", Secret: "s"},
			wantErr: cf.ErrAPIHostRequired,
		},
		{
			name:    "missing credentials",
			config:  &cf.Config{APIHost: "api.sys.example.com"},
			wantErr: cf.ErrCredentialsRequired,
		},
		{
			name:    "missing secret",
			config:  &cf.Config{APIHost: "api.sys.example.com", User: "u"},
			wantErr: cf.ErrCredentialsRequired,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(context.Background(), tt.config)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeriveEndpoints(t *testing.T) {
	t.Parallel()

	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name     string
		config   *cf.Config
		expected endpoints
	}{
		{
			name:   "api prefix substitution",
			config: &cf.Config{APIHost: "api.sys.example.com"},
			expected: endpoints{
				api:   "https://api.sys.example.com",
				login: "https://login.sys.example.com",
				log:   "https://doppler.sys.example.com",
			},
		},
		{
			name:   "host without api prefix serves all roles",
			config: &cf.Config{APIHost: "cf.internal.example.com"},
			expected: endpoints{
				api:   "https://cf.internal.example.com",
				login: "https://cf.internal.example.com",
				log:   "https://cf.internal.example.com",
			},
		},
		{
			name:   "explicit scheme wins",
			config: &cf.Config{APIHost: "http://api.local.example.com"},
			expected: endpoints{
				api:   "http://api.local.example.com",
				login: "http://login.local.example.com",
				log:   "http://doppler.local.example.com",
			},
		},
		{
			name:   "UseHTTPS false selects http",
			config: &cf.Config{APIHost: "api.sys.example.com", UseHTTPS: boolPtr(false)},
			expected: endpoints{
				api:   "http://api.sys.example.com",
				login: "http://login.sys.example.com",
				log:   "http://doppler.sys.example.com",
			},
		},
		{
			name:   "trailing slash trimmed",
			config: &cf.Config{APIHost: "api.sys.example.com/"},
			expected: endpoints{
				api:   "https://api.sys.example.com",
				login: "https://login.sys.example.com",
				log:   "https://doppler.sys.example.com",
			},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, deriveEndpoints(tt.config))
		})
	}
}

func TestRegistry_InstallOrder(t *testing.T) {
	t.Parallel()

	t.Run("builder before its dependency fails", func(t *testing.T) {
		t.Parallel()

		r := newRegistry()
		err := r.install([]builder{
			{
				kind: kindSpaces,
				deps: []kind{kindOrganizations},
				build: func(*registry) (interface{}, error) {
					return struct{}{}, nil
				},
			},
		})

		require.ErrorIs(t, err, errMissingDependency)
	})

	t.Run("dependency-ordered install succeeds", func(t *testing.T) {
		t.Parallel()

		r := newRegistry()
		err := r.install([]builder{
			{
				kind: kindOrganizations,
				build: func(*registry) (interface{}, error) {
					return &OrganizationsClient{}, nil
				},
			},
			{
				kind: kindSpaces,
				deps: []kind{kindOrganizations},
				build: func(reg *registry) (interface{}, error) {
					orgs, err := lookup[cf.OrganizationsClient](reg, kindOrganizations)
					if err != nil {
						return nil, err
					}

					return NewSpacesClient(nil, orgs, 50), nil
				},
			},
		})

		require.NoError(t, err)

		spaces, err := lookup[cf.SpacesClient](r, kindSpaces)
		require.NoError(t, err)
		assert.NotNil(t, spaces)
	})

	t.Run("lookup of missing facade fails", func(t *testing.T) {
		t.Parallel()

		r := newRegistry()

		_, err := lookup[cf.RoutesClient](r, kindRoutes)
		require.ErrorIs(t, err, errMissingDependency)
	})
}

func TestClient_AccessorsFullyWired(t *testing.T) {
	t.Parallel()

	client, err := NewTestClient("http://api.example.com")
	require.NoError(t, err)

	assert.NotNil(t, client.Organizations())
	assert.NotNil(t, client.Spaces())
	assert.NotNil(t, client.Domains())
	assert.NotNil(t, client.Routes())
	assert.NotNil(t, client.Applications())
	assert.NotNil(t, client.ServiceInstances())
	assert.NotNil(t, client.ServiceKeys())
	assert.NotNil(t, client.Tasks())
	assert.NotNil(t, client.Logs())
}
