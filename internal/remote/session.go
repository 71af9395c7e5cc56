package remote

import (
	"context"
	"net/http"

	"github.com/keyxmakerx/rolodex/internal/apperror"
	"github.com/keyxmakerx/rolodex/internal/plugins/auth"
)

// SignIn opens a session and stores its token on the client.
func (c *Client) SignIn(ctx context.Context, email, password string) (auth.Token, error) {
	var tok auth.Token
	req := auth.SignInRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/sign-in", nil, req, &tok); err != nil {
		return auth.Token{}, err
	}
	c.SetToken(tok.Token)
	return tok, nil
}

// SignOut ends the current session. The local token is dropped even when
// the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/auth/sign-out", nil, nil, nil)
	c.SetToken("")
	return err
}

// CurrentUser returns the session behind the client's token.
func (c *Client) CurrentUser(ctx context.Context) (auth.Session, error) {
	var s auth.Session
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &s); err != nil {
		return auth.Session{}, err
	}
	return s, nil
}

// Refresh extends the current session's lifetime.
func (c *Client) Refresh(ctx context.Context) (auth.Token, error) {
	if c.Token() == "" {
		return auth.Token{}, apperror.NewUnauthorized("not signed in")
	}
	var tok auth.Token
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, nil, &tok); err != nil {
		return auth.Token{}, err
	}
	if tok.Token != "" {
		c.SetToken(tok.Token)
	}
	return tok, nil
}

// Credentials refreshes a client's session and signs in again with a
// stored email and password once the session can no longer be extended.
type Credentials struct {
	Client   *Client
	Email    string
	Password string
}

// Refresh extends the session, falling back to a fresh sign-in when the
// store reports it unauthorized.
func (c Credentials) Refresh(ctx context.Context) (auth.Token, error) {
	tok, err := c.Client.Refresh(ctx)
	if err == nil || !apperror.IsType(err, apperror.TypeUnauthorized) || c.Email == "" {
		return tok, err
	}
	return c.Client.SignIn(ctx, c.Email, c.Password)
}
