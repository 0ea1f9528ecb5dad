package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rvazquezglez/clouddriver/internal/constants"
	cfhttp "github.com/rvazquezglez/clouddriver/internal/http"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// RoutesClient implements cf.RoutesClient.
type RoutesClient struct {
	httpClient *cfhttp.Client
	domains    cf.DomainsClient
	pageSize   int
}

// NewRoutesClient creates a new routes client. The domains facade resolves
// route URIs into host, path, and domain parts.
func NewRoutesClient(httpClient *cfhttp.Client, domains cf.DomainsClient, pageSize int) *RoutesClient {
	return &RoutesClient{
		httpClient: httpClient,
		domains:    domains,
		pageSize:   pageSize,
	}
}

// List implements cf.RoutesClient.List.
func (c *RoutesClient) List(ctx context.Context, params *cf.QueryParams) (*cf.ListResponse[cf.Route], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/v3/routes", query)
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}

	var result cf.ListResponse[cf.Route]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing routes list response: %w", err)
	}

	return &result, nil
}

// Get implements cf.RoutesClient.Get.
func (c *RoutesClient) Get(ctx context.Context, guid string) (*cf.Route, error) {
	path := fmt.Sprintf("/v3/routes/%s", guid)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting route: %w", err)
	}

	var route cf.Route
	if err := json.Unmarshal(resp.Body, &route); err != nil {
		return nil, fmt.Errorf("parsing route response: %w", err)
	}

	return &route, nil
}

// Create implements cf.RoutesClient.Create.
func (c *RoutesClient) Create(ctx context.Context, request *cf.RouteCreateRequest) (*cf.Route, error) {
	resp, err := c.httpClient.Post(ctx, "/v3/routes", request)
	if err != nil {
		return nil, fmt.Errorf("creating route: %w", err)
	}

	var route cf.Route
	if err := json.Unmarshal(resp.Body, &route); err != nil {
		return nil, fmt.Errorf("parsing route response: %w", err)
	}

	return &route, nil
}

// Delete implements cf.RoutesClient.Delete.
func (c *RoutesClient) Delete(ctx context.Context, guid string) error {
	path := fmt.Sprintf("/v3/routes/%s", guid)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting route: %w", err)
	}

	return nil
}

// Find implements cf.RoutesClient.Find. Empty host and path filters match
// routes with empty host and path, not all routes.
func (c *RoutesClient) Find(ctx context.Context, domainGUID, host, path string) (*cf.Route, error) {
	params := cf.NewQueryParams().
		WithFilter("domain_guids", domainGUID).
		WithFilter("hosts", host).
		WithFilter("paths", path).
		WithPerPage(c.pageSize)

	result, err := c.List(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(result.Resources) == 0 {
		return nil, fmt.Errorf("%w: host=%q path=%q", cf.ErrRouteNotFound, host, path)
	}

	return &result.Resources[0], nil
}

// ParseRoute implements cf.RoutesClient.ParseRoute. It decomposes a route
// URI like host.domain.example.com/path by matching the longest known
// domain suffix.
func (c *RoutesClient) ParseRoute(ctx context.Context, route string) (*cf.RouteParts, error) {
	uri := strings.TrimSpace(route)
	uri = strings.TrimPrefix(uri, "https://")
	uri = strings.TrimPrefix(uri, "http://")

	if uri == "" {
		return nil, fmt.Errorf("%w: empty route", cf.ErrInvalidRoute)
	}

	hostAndDomain := uri
	path := ""

	if idx := strings.Index(uri, "/"); idx >= 0 {
		hostAndDomain = uri[:idx]
		path = uri[idx:]
	}

	domain, err := c.matchDomain(ctx, hostAndDomain)
	if err != nil {
		return nil, err
	}

	host := strings.TrimSuffix(hostAndDomain, domain.Name)
	host = strings.TrimSuffix(host, ".")

	return &cf.RouteParts{
		Host:   host,
		Path:   path,
		Domain: domain,
	}, nil
}

// matchDomain finds the longest domain whose name is a suffix of
// hostAndDomain, paging through all known domains.
func (c *RoutesClient) matchDomain(ctx context.Context, hostAndDomain string) (*cf.Domain, error) {
	var best *cf.Domain

	params := cf.NewQueryParams().WithPerPage(c.pageSize).WithPage(1)

	// MaxPages caps the walk against a server that keeps handing out Next
	// links.
	for params.Page <= constants.MaxPages {
		result, err := c.domains.List(ctx, params)
		if err != nil {
			return nil, err
		}

		for i := range result.Resources {
			domain := &result.Resources[i]
			if hostAndDomain != domain.Name && !strings.HasSuffix(hostAndDomain, "."+domain.Name) {
				continue
			}

			if best == nil || len(domain.Name) > len(best.Name) {
				best = domain
			}
		}

		if result.Pagination.Next == nil {
			break
		}

		params = params.WithPage(params.Page + 1)
	}

	if best == nil {
		return nil, fmt.Errorf("%w: no domain matches %q", cf.ErrInvalidRoute, hostAndDomain)
	}

	return best, nil
}

// Map implements cf.RoutesClient.Map by adding the application as a route
// destination.
func (c *RoutesClient) Map(ctx context.Context, routeGUID, appGUID string) error {
	path := fmt.Sprintf("/v3/routes/%s/destinations", routeGUID)
	body := map[string]interface{}{
		"destinations": []cf.RouteDestination{
			{App: cf.RouteDestinationApp{GUID: appGUID}},
		},
	}

	if _, err := c.httpClient.Post(ctx, path, body); err != nil {
		return fmt.Errorf("mapping route: %w", err)
	}

	return nil
}

// Unmap implements cf.RoutesClient.Unmap by removing a route destination.
func (c *RoutesClient) Unmap(ctx context.Context, routeGUID, destinationGUID string) error {
	path := fmt.Sprintf("/v3/routes/%s/destinations/%s", routeGUID, destinationGUID)

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("unmapping route: %w", err)
	}

	return nil
}
