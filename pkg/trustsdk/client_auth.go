package trustsdk

import (
	"context"
	"net/http"
)

// Register creates an account and signs the client in. Any guest cart the
// client built is moved to the new account.
func (c *Client) Register(ctx context.Context, username, password string) (*SessionResponse, error) {
	return c.signIn(ctx, "/v1/auth/register", username, password, http.StatusCreated)
}

// Login signs the client in, moving any guest cart to the account.
func (c *Client) Login(ctx context.Context, username, password string) (*SessionResponse, error) {
	return c.signIn(ctx, "/v1/auth/login", username, password, http.StatusOK)
}

func (c *Client) signIn(ctx context.Context, path, username, password string, expected int) (*SessionResponse, error) {
	resp, err := c.send(ctx, http.MethodPost, path, Credentials{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	var session SessionResponse
	if err := decodeJSON(resp, &session, expected); err != nil {
		return nil, err
	}

	// The server dropped any token issued before this sign-in.
	c.setCSRFToken("")
	return &session, nil
}

// Refresh trades the refresh cookie for a new token pair. On
// ErrInvalidRefreshToken the server has cleared the session cookies.
func (c *Client) Refresh(ctx context.Context) (*SessionResponse, error) {
	resp, err := c.send(ctx, http.MethodPost, "/v1/auth/refresh", nil)
	if err != nil {
		return nil, err
	}

	var session SessionResponse
	if err := decodeJSON(resp, &session, http.StatusOK); err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout ends the session. Signed-in clients need a CSRF token first.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, "/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	if err := checkStatusNoContent(resp); err != nil {
		return err
	}
	c.setCSRFToken("")
	return nil
}

// Me reports how the server sees the caller.
func (c *Client) Me(ctx context.Context) (*IdentityResponse, error) {
	resp, err := c.send(ctx, http.MethodGet, "/v1/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var id IdentityResponse
	if err := decodeJSON(resp, &id, http.StatusOK); err != nil {
		return nil, err
	}
	return &id, nil
}

// CSRFToken fetches a token for the signed-in caller and caches it for the
// following mutating requests.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/auth/csrf", nil)
	if err != nil {
		return "", err
	}

	var body CSRFTokenResponse
	if err := decodeJSON(resp, &body, http.StatusOK); err != nil {
		return "", err
	}

	c.setCSRFToken(body.CSRFToken)
	return body.CSRFToken, nil
}
