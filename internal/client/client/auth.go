package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

// AuthCheck succeeds only when the backend accepts the current credential.
func (c *Client) AuthCheck(ctx context.Context) error {
	return c.do(ctx, endpoint(http.MethodGet, "/auth-check"), nil)
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) error {
	return c.do(ctx, endpoint(http.MethodPost, "/login").withBody(creds), nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, endpoint(http.MethodPost, "/logout"), nil)
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.Registration, error) {
	var out models.Registration
	err := c.do(ctx, endpoint(http.MethodPost, "/register").withBody(req).expect("message"), &out)
	return out, err
}
