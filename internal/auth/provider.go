package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rvazquezglez/clouddriver/internal/constants"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// TokenManager supplies bearer tokens for API requests and refreshes them
// when the server rejects one.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// Config describes how to reach the UAA token endpoint and which grant to
// exchange there.
type Config struct {
	// TokenURL is the full token endpoint, e.g. https://login.example.com/oauth/token.
	TokenURL string

	// ClientID identifies the OAuth2 client; the platform's public CLI
	// client "cf" carries no secret.
	ClientID     string
	ClientSecret string

	// Username and Password drive the password grant.
	Username string
	Password string
}

// TokenProvider exchanges credentials with UAA and caches the result. All
// concurrent token fetches for the same provider collapse into one login
// round trip.
type TokenProvider struct {
	config *Config
	store  *TokenStore
	client *http.Client
	group  singleflight.Group
}

// NewTokenProvider creates a provider. A nil httpClient gets a default with
// a short timeout; pass a client with a permissive transport when the login
// host uses self-signed certificates.
func NewTokenProvider(config *Config, httpClient *http.Client) *TokenProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.ShortHTTPTimeout}
	}

	if config.ClientID == "" {
		config.ClientID = constants.DefaultClientID
	}

	return &TokenProvider{
		config: config,
		store:  NewTokenStore(),
		client: httpClient,
	}
}

// GetToken returns a valid access token, logging in when the cached one is
// missing or inside the expiry buffer.
func (p *TokenProvider) GetToken(ctx context.Context) (string, error) {
	if token := p.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	token, err := p.fetch(ctx, nil)
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// RefreshToken replaces the cached token after the server rejected it.
// Concurrent callers share a single exchange, and a refresh that arrives
// after another one already replaced the token reuses that result instead
// of discarding it.
func (p *TokenProvider) RefreshToken(ctx context.Context) error {
	_, err := p.fetch(ctx, p.store.Get())

	return err
}

// SetToken installs a token obtained elsewhere.
func (p *TokenProvider) SetToken(token string, expiresAt time.Time) {
	p.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// fetch runs one token exchange through the single-flight group. Callers
// that arrive while an exchange is in flight wait for its result instead of
// issuing their own. rejected is the token the caller observed a rejection
// with, nil when any valid token will do; a stored token differing from it
// was already replaced by another flight and is reused as-is.
func (p *TokenProvider) fetch(ctx context.Context, rejected *Token) (*Token, error) {
	result, err, _ := p.group.Do("token", func() (interface{}, error) {
		// A concurrent flight may already have stored a fresh token.
		if token := p.store.Get(); token.Valid() && token != rejected {
			return token, nil
		}

		if rejected != nil {
			// Drop the rejected token so its grants are not replayed.
			p.store.Clear()
		}

		token, err := p.exchange(ctx)
		if err != nil {
			return nil, err
		}

		p.store.Set(token)

		return token, nil
	})
	if err != nil {
		return nil, err
	}

	token, ok := result.(*Token)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected token type", cf.ErrAuthenticationFailed)
	}

	return token, nil
}

// exchange posts the grant to UAA. A stored refresh token takes precedence;
// otherwise the password grant runs, falling back to client credentials.
func (p *TokenProvider) exchange(ctx context.Context) (*Token, error) {
	form := url.Values{}

	switch {
	case p.store.Get() != nil && p.store.Get().RefreshToken != "":
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", p.store.Get().RefreshToken)
	case p.config.Username != "":
		form.Set("grant_type", "password")
		form.Set("username", p.config.Username)
		form.Set("password", p.config.Password)
	case p.config.ClientSecret != "":
		form.Set("grant_type", "client_credentials")
	default:
		return nil, fmt.Errorf("%w: no valid credentials available", cf.ErrAuthenticationFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(p.config.ClientID, p.config.ClientSecret)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, uaaError(body, resp.StatusCode)
	}

	token := &Token{}
	if err := json.Unmarshal(body, token); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return token, nil
}

// uaaError surfaces UAA's error and error_description fields.
func uaaError(body []byte, statusCode int) error {
	var uaaResp struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}

	if err := json.Unmarshal(body, &uaaResp); err == nil && uaaResp.Error != "" {
		return fmt.Errorf("%w: %s: %s", cf.ErrAuthenticationFailed, uaaResp.Error, uaaResp.Description)
	}

	return fmt.Errorf("%w: token endpoint returned status %d", cf.ErrAuthenticationFailed, statusCode)
}
