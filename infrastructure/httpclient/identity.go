package httpclient

import (
	"context"
	"net/http"

	"feeder-workbench/application/ports"
	"feeder-workbench/domain/identity"
)

// IdentityClient implements ports.IdentityService
type IdentityClient struct {
	client *Client
}

var _ ports.IdentityService = (*IdentityClient)(nil)

// NewIdentityClient creates an identity service client
func NewIdentityClient(client *Client) *IdentityClient {
	return &IdentityClient{client: client}
}

// Me returns the user, subscription and quota behind the stored token
func (c *IdentityClient) Me(ctx context.Context) (*identity.Profile, error) {
	var out identity.Profile
	err := c.client.do(ctx, call{
		operation:   "me",
		method:      http.MethodGet,
		path:        "/auth/me",
		out:         &out,
		auth:        true,
		requireAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// OAuthCallback exchanges an OAuth code for a bearer token
func (c *IdentityClient) OAuthCallback(ctx context.Context, provider, code, state string) (*ports.LoginResult, error) {
	body := map[string]string{"provider": provider, "code": code, "state": state}
	var out ports.LoginResult
	err := c.client.do(ctx, call{
		operation: "oauth_callback",
		method:    http.MethodPost,
		path:      "/auth/oauth/callback",
		body:      body,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AuthURL asks where to send the operator to start an OAuth flow
func (c *IdentityClient) AuthURL(ctx context.Context, provider, state string) (*ports.AuthURL, error) {
	body := map[string]string{"provider": provider, "state": state}
	var out ports.AuthURL
	err := c.client.do(ctx, call{
		operation: "oauth_url",
		method:    http.MethodPost,
		path:      "/auth/oauth/url",
		body:      body,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh trades a token for a fresh one
func (c *IdentityClient) Refresh(ctx context.Context, token string) (*identity.Credentials, error) {
	var out identity.Credentials
	err := c.client.do(ctx, call{
		operation: "refresh",
		method:    http.MethodPost,
		path:      "/auth/refresh",
		body:      map[string]string{"token": token},
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
