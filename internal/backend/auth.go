package backend

import (
	"context"
	"net/http"
)

// Login authenticates credentials and returns the backend user and token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, req, &out)
	return out, err
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (SignupResponse, error) {
	var out SignupResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/signup", nil, req, &out)
	return out, err
}

// Whoami maps an OAuth identity to a backend user id. A 404 means the
// account does not exist.
func (c *Client) Whoami(ctx context.Context, req WhoamiRequest) (WhoamiResponse, error) {
	var out WhoamiResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/whoami", nil, req, &out)
	return out, err
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) (Message, error) {
	var out Message
	err := c.doJSON(ctx, http.MethodPost, "/auth/request-password-reset", nil, map[string]string{"email": email}, &out)
	return out, err
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (Message, error) {
	var out Message
	err := c.doJSON(ctx, http.MethodPost, "/auth/reset-password", nil, req, &out)
	return out, err
}
