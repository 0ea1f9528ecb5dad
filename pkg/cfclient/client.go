// Package cfclient is the entry point for creating Cloud Foundry API
// clients.
package cfclient

import (
	"context"
	"fmt"

	"github.com/rvazquezglez/clouddriver/internal/client"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// New creates a fully wired client for one account. The login and log
// endpoints are derived from the API host; see cf.Config for the rules.
func New(ctx context.Context, config *cf.Config) (cf.Client, error) {
	c, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return c, nil
}

// NewWithPassword creates a client against apiHost using the password grant.
func NewWithPassword(ctx context.Context, apiHost, user, secret string) (cf.Client, error) {
	return New(ctx, &cf.Config{
		APIHost: apiHost,
		User:    user,
		Secret:  secret,
	})
}
