package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type User struct {
	AvatarURL *string `json:"avatar_url,omitempty"`
	ID        int64   `json:"id,string"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
}

type AuthorizationURL struct {
	URL   string `json:"authorization_url"`
	State string `json:"state"`
}

type exchangeResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
	Token     string    `json:"token"`
}

// AuthorizationURL asks the server where to send the user to sign in.
func (c *Client) AuthorizationURL(ctx context.Context) (*AuthorizationURL, error) {
	var out AuthorizationURL
	if err := c.Request(ctx, "/auth/url", RequestOptions{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges an authorization code for a bearer token and stores it in
// the session.
func (c *Client) Login(ctx context.Context, code string) (*User, error) {
	var out exchangeResponse
	opts := RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"code": code},
	}
	if err := c.Request(ctx, "/auth/exchange", opts, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &OperationFailedError{Message: "server returned no token"}
	}

	if err := c.session.SetToken(out.Token); err != nil {
		return nil, fmt.Errorf("storing session token: %w", err)
	}

	c.logger.InfoContext(ctx, "logged in", "user_id", out.User.ID, "expires_at", out.ExpiresAt)
	return &out.User, nil
}

// Logout revokes the session server side when possible, then always clears
// the local credential and navigates to the login path.
func (c *Client) Logout(ctx context.Context) error {
	if _, ok := c.session.CurrentToken(); ok {
		err := c.Request(ctx, "/auth/logout", RequestOptions{Method: http.MethodPost}, nil)
		if err != nil && !errors.Is(err, ErrSessionExpired) {
			c.logger.WarnContext(ctx, "server logout failed", "error", err)
		}
	}

	if err := c.session.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	if c.navigator != nil {
		c.navigator.Navigate(c.loginPath)
	}
	return nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.Request(ctx, "/auth/me", RequestOptions{}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
