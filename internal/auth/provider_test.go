package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

func TestTokenProvider_GetToken(t *testing.T) {
	t.Run("returns cached valid token", func(t *testing.T) {
		provider := NewTokenProvider(&Config{}, nil)
		provider.SetToken("existing-token", time.Now().Add(1*time.Hour))

		token, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "existing-token", token)
	})

	t.Run("uses password grant with cf client basic auth", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/oauth/token", r.URL.Path)
			assert.Equal(t, "POST", r.Method)

			username, password, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "cf", username)
			assert.Equal(t, "", password)

			err := r.ParseForm()
			require.NoError(t, err)
			assert.Equal(t, "password", r.Form.Get("grant_type"))
			assert.Equal(t, "testuser", r.Form.Get("username"))
			assert.Equal(t, "testpass", r.Form.Get("password"))

			response := Token{
				AccessToken: "password-token",
				ExpiresIn:   3600,
				TokenType:   "bearer",
			}
			_ = json.NewEncoder(w).Encode(response)
		}))
		defer server.Close()

		provider := NewTokenProvider(&Config{
			TokenURL: server.URL + "/oauth/token",
			Username: "testuser",
			Password: "testpass",
		}, nil)

		token, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "password-token", token)

		stored := provider.store.Get()
		require.NotNil(t, stored)
		assert.True(t, stored.Valid())
	})

	t.Run("refreshes expired token using refresh token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := r.ParseForm()
			require.NoError(t, err)
			assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
			assert.Equal(t, "old-refresh-token", r.Form.Get("refresh_token"))

			response := Token{
				AccessToken:  "new-access-token",
				RefreshToken: "new-refresh-token",
				ExpiresIn:    3600,
				TokenType:    "bearer",
			}
			_ = json.NewEncoder(w).Encode(response)
		}))
		defer server.Close()

		provider := NewTokenProvider(&Config{
			TokenURL: server.URL + "/oauth/token",
			Username: "testuser",
			Password: "testpass",
		}, nil)

		provider.store.Set(&Token{
			AccessToken:  "expired-token",
			RefreshToken: "old-refresh-token",
			ExpiresAt:    time.Now().Add(-1 * time.Hour),
		})

		token, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "new-access-token", token)
	})

	t.Run("uses client credentials when configured", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client-id", username)
			assert.Equal(t, "client-secret", password)

			err := r.ParseForm()
			require.NoError(t, err)
			assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))

			response := Token{
				AccessToken: "client-token",
				ExpiresIn:   3600,
				TokenType:   "bearer",
			}
			_ = json.NewEncoder(w).Encode(response)
		}))
		defer server.Close()

		provider := NewTokenProvider(&Config{
			TokenURL:     server.URL + "/oauth/token",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		}, nil)

		token, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "client-token", token)
	})

	t.Run("surfaces UAA error details", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			response := map[string]string{
				"error":             "invalid_client",
				"error_description": "Client authentication failed",
			}
			_ = json.NewEncoder(w).Encode(response)
		}))
		defer server.Close()

		provider := NewTokenProvider(&Config{
			TokenURL: server.URL + "/oauth/token",
			Username: "baduser",
			Password: "badpass",
		}, nil)

		token, err := provider.GetToken(context.Background())
		require.Error(t, err)
		require.ErrorIs(t, err, cf.ErrAuthenticationFailed)
		assert.Contains(t, err.Error(), "invalid_client")
		assert.Contains(t, err.Error(), "Client authentication failed")
		assert.Equal(t, "", token)
	})

	t.Run("no credentials available", func(t *testing.T) {
		provider := NewTokenProvider(&Config{
			TokenURL: "http://example.com/oauth/token",
		}, nil)

		token, err := provider.GetToken(context.Background())
		require.Error(t, err)
		require.ErrorIs(t, err, cf.ErrAuthenticationFailed)
		assert.Contains(t, err.Error(), "no valid credentials available")
		assert.Equal(t, "", token)
	})
}

func TestTokenProvider_RefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := Token{
			AccessToken: "refreshed-token",
			ExpiresIn:   3600,
			TokenType:   "bearer",
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	provider := NewTokenProvider(&Config{
		TokenURL: server.URL + "/oauth/token",
		Username: "testuser",
		Password: "testpass",
	}, nil)

	provider.SetToken("current-token", time.Now().Add(1*time.Hour))

	err := provider.RefreshToken(context.Background())
	require.NoError(t, err)

	token, err := provider.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", token)
}

func TestTokenProvider_RefreshAfterReplacement(t *testing.T) {
	t.Run("skips the exchange when the rejected token was already replaced", func(t *testing.T) {
		var logins int64

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt64(&logins, 1)

			_ = json.NewEncoder(w).Encode(Token{
				AccessToken: "should-not-be-fetched",
				ExpiresIn:   3600,
				TokenType:   "bearer",
			})
		}))
		defer server.Close()

		provider := NewTokenProvider(&Config{
			TokenURL: server.URL + "/oauth/token",
			Username: "testuser",
			Password: "testpass",
		}, nil)

		// Another caller's refresh already replaced the token the 401 was
		// observed with.
		rejected := &Token{AccessToken: "rejected-by-401"}
		provider.store.Set(&Token{
			AccessToken: "already-replaced",
			ExpiresAt:   time.Now().Add(1 * time.Hour),
		})

		token, err := provider.fetch(context.Background(), rejected)
		require.NoError(t, err)
		assert.Equal(t, "already-replaced", token.AccessToken)
		assert.Equal(t, int64(0), atomic.LoadInt64(&logins),
			"a completed refresh must not be repeated or discarded")
	})

	t.Run("drops the rejected token's grants before the exchange", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := r.ParseForm()
			require.NoError(t, err)
			assert.Equal(t, "password", r.Form.Get("grant_type"))

			_ = json.NewEncoder(w).Encode(Token{
				AccessToken: "fresh-token",
				ExpiresIn:   3600,
				TokenType:   "bearer",
			})
		}))
		defer server.Close()

		provider := NewTokenProvider(&Config{
			TokenURL: server.URL + "/oauth/token",
			Username: "testuser",
			Password: "testpass",
		}, nil)

		provider.store.Set(&Token{
			AccessToken:  "rejected-by-401",
			RefreshToken: "poisoned-refresh-token",
			ExpiresAt:    time.Now().Add(1 * time.Hour),
		})

		err := provider.RefreshToken(context.Background())
		require.NoError(t, err)

		token, err := provider.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token)
	})
}

func TestTokenProvider_ConcurrentFetchesCollapse(t *testing.T) {
	var logins int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&logins, 1)
		time.Sleep(50 * time.Millisecond)

		response := Token{
			AccessToken: "shared-token",
			ExpiresIn:   3600,
			TokenType:   "bearer",
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	provider := NewTokenProvider(&Config{
		TokenURL: server.URL + "/oauth/token",
		Username: "testuser",
		Password: "testpass",
	}, nil)

	const workers = 10

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			token, err := provider.GetToken(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "shared-token", token)
		}()
	}

	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&logins),
		"concurrent token fetches should share one login exchange")
}
