// Package client wires the resilient transport to the typed resource
// facades. Facades are installed through an explicit registry in dependency
// order: organizations first, then spaces, then the space-scoped resources,
// with routes last among the API facades because route parsing needs the
// domains facade.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rvazquezglez/clouddriver/internal/auth"
	"github.com/rvazquezglez/clouddriver/internal/constants"
	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// Client implements cf.Client.
type Client struct {
	config   *cf.Config
	registry *registry
}

// endpoints are the three hosts a platform installation exposes.
type endpoints struct {
	api   string
	login string
	log   string
}

// deriveEndpoints expands the API host into the login and log endpoints by
// prefix substitution: api.sys.example.com logs in at login.sys.example.com
// and streams logs from doppler.sys.example.com. Hosts without the "api."
// prefix serve all three roles themselves.
func deriveEndpoints(config *cf.Config) endpoints {
	host := strings.TrimSuffix(config.APIHost, "/")
	scheme := "https"

	if config.UseHTTPS != nil && !*config.UseHTTPS {
		scheme = "http"
	}

	if strings.Contains(host, "://") {
		if parsed, err := url.Parse(host); err == nil {
			scheme = parsed.Scheme
			host = parsed.Host
		}
	}

	loginHost := host
	logHost := host

	if rest, ok := strings.CutPrefix(host, "api."); ok {
		loginHost = "login." + rest
		logHost = "doppler." + rest
	}

	return endpoints{
		api:   scheme + "://" + host,
		login: scheme + "://" + loginHost,
		log:   scheme + "://" + logHost,
	}
}

// New constructs a fully wired client for one account. Construction fails,
// rather than returning a partially usable client, when the config is
// incomplete or a facade cannot be built.
func New(ctx context.Context, config *cf.Config) (*Client, error) {
	if config == nil {
		return nil, cf.ErrConfigRequired
	}

	if config.APIHost == "" {
		return nil, cf.ErrAPIHostRequired
	}

	if config.User == "" || config.Secret == "" {
		return nil, cf.ErrCredentialsRequired
	}

	eps := deriveEndpoints(config)

	loginTransport := cfhttp.BuildTransport(config.SkipTLSValidation, config.Logger)
	tokenProvider := auth.NewTokenProvider(&auth.Config{
		TokenURL: eps.login + "/oauth/token",
		ClientID: constants.DefaultClientID,
		Username: config.User,
		Password: config.Secret,
	}, &http.Client{
		Timeout:   constants.ShortHTTPTimeout,
		Transport: loginTransport,
	})

	apiClient, err := buildHTTPClient(config, eps.api, tokenProvider, true)
	if err != nil {
		return nil, err
	}

	logClient, err := buildHTTPClient(config, eps.log, tokenProvider, false)
	if err != nil {
		return nil, err
	}

	client := &Client{
		config:   config,
		registry: newRegistry(),
	}

	pageSize := config.ResultsPerPage
	if pageSize <= 0 {
		pageSize = constants.DefaultResultsPerPage
	}

	if err := client.registry.install(facadeBuilders(apiClient, logClient, pageSize)); err != nil {
		return nil, err
	}

	return client, nil
}

// buildHTTPClient assembles one transport stack: TLS policy, metrics
// tagging, retry budget, and (for the API host only) the response cache.
func buildHTTPClient(config *cf.Config, baseURL string, tokenProvider *auth.TokenProvider, cached bool) (*cfhttp.Client, error) {
	// The log endpoint shares the TLS policy but never substitutes hosts,
	// so each client gets its own transport.
	transport := cfhttp.NewMetricsTransport(
		cfhttp.BuildTransport(config.SkipTLSValidation, config.Logger),
		config.MeterProvider,
		config.Account,
	)

	retryMax := config.RetryMax
	if retryMax <= 0 {
		retryMax = constants.DefaultRetryMax
	}

	retryDelay := config.RetryDelay
	if retryDelay <= 0 {
		retryDelay = constants.DefaultRetryDelay
	}

	if retryDelay > constants.MaxRetryDelay {
		retryDelay = constants.MaxRetryDelay
	}

	timeout := config.HTTPTimeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	opts := []cfhttp.Option{
		cfhttp.WithTransport(transport),
		cfhttp.WithRetryConfig(retryMax, retryDelay, timeout),
	}

	if config.Logger != nil {
		opts = append(opts, cfhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, cfhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, cfhttp.WithUserAgent(config.UserAgent))
	}

	if cached && config.Cache != nil {
		cache, err := cf.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("building response cache: %w", err)
		}

		ttl := config.Cache.TTL
		if ttl <= 0 {
			ttl = constants.DefaultCacheTTL
		}

		opts = append(opts, cfhttp.WithCache(cache, ttl))
	}

	return cfhttp.NewClient(baseURL, tokenProvider, opts...), nil
}

// facadeBuilders declares the facades in construction order. Spaces depend
// on organizations for name resolution, routes depend on domains for route
// parsing; everything else stands alone on the shared transport.
func facadeBuilders(apiClient, logClient *cfhttp.Client, pageSize int) []builder {
	return []builder{
		{
			kind: kindOrganizations,
			build: func(*registry) (interface{}, error) {
				return NewOrganizationsClient(apiClient, pageSize), nil
			},
		},
		{
			kind: kindSpaces,
			deps: []kind{kindOrganizations},
			build: func(r *registry) (interface{}, error) {
				orgs, err := lookup[cf.OrganizationsClient](r, kindOrganizations)
				if err != nil {
					return nil, err
				}

				return NewSpacesClient(apiClient, orgs, pageSize), nil
			},
		},
		{
			kind: kindDomains,
			build: func(*registry) (interface{}, error) {
				return NewDomainsClient(apiClient, pageSize), nil
			},
		},
		{
			kind: kindServiceInstances,
			build: func(*registry) (interface{}, error) {
				return NewServiceInstancesClient(apiClient, pageSize), nil
			},
		},
		{
			kind: kindServiceKeys,
			build: func(*registry) (interface{}, error) {
				return NewServiceKeysClient(apiClient, pageSize), nil
			},
		},
		{
			kind: kindTasks,
			build: func(*registry) (interface{}, error) {
				return NewTasksClient(apiClient, pageSize), nil
			},
		},
		{
			kind: kindApplications,
			build: func(*registry) (interface{}, error) {
				return NewApplicationsClient(apiClient, pageSize), nil
			},
		},
		{
			kind: kindRoutes,
			deps: []kind{kindDomains},
			build: func(r *registry) (interface{}, error) {
				domains, err := lookup[cf.DomainsClient](r, kindDomains)
				if err != nil {
					return nil, err
				}

				return NewRoutesClient(apiClient, domains, pageSize), nil
			},
		},
		{
			kind: kindLogs,
			build: func(*registry) (interface{}, error) {
				return NewLogsClient(logClient), nil
			},
		},
	}
}

// mustLookup backs the accessors. install verified every facade, so a
// missing entry here is unreachable.
func mustLookup[T any](r *registry, k kind) T {
	facade, err := lookup[T](r, k)
	if err != nil {
		panic(err)
	}

	return facade
}

// Organizations implements cf.Client.
func (c *Client) Organizations() cf.OrganizationsClient {
	return mustLookup[cf.OrganizationsClient](c.registry, kindOrganizations)
}

// Spaces implements cf.Client.
func (c *Client) Spaces() cf.SpacesClient {
	return mustLookup[cf.SpacesClient](c.registry, kindSpaces)
}

// Domains implements cf.Client.
func (c *Client) Domains() cf.DomainsClient {
	return mustLookup[cf.DomainsClient](c.registry, kindDomains)
}

// Routes implements cf.Client.
func (c *Client) Routes() cf.RoutesClient {
	return mustLookup[cf.RoutesClient](c.registry, kindRoutes)
}

// Applications implements cf.Client.
func (c *Client) Applications() cf.ApplicationsClient {
	return mustLookup[cf.ApplicationsClient](c.registry, kindApplications)
}

// ServiceInstances implements cf.Client.
func (c *Client) ServiceInstances() cf.ServiceInstancesClient {
	return mustLookup[cf.ServiceInstancesClient](c.registry, kindServiceInstances)
}

// ServiceKeys implements cf.Client.
func (c *Client) ServiceKeys() cf.ServiceKeysClient {
	return mustLookup[cf.ServiceKeysClient](c.registry, kindServiceKeys)
}

// Tasks implements cf.Client.
func (c *Client) Tasks() cf.TasksClient {
	return mustLookup[cf.TasksClient](c.registry, kindTasks)
}

// Logs implements cf.Client.
func (c *Client) Logs() cf.LogsClient {
	return mustLookup[cf.LogsClient](c.registry, kindLogs)
}
