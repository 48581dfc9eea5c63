package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

func (c *Client) SearchUser(ctx context.Context, userID int) (models.UserSummary, error) {
	var out models.UserSummary
	err := c.do(ctx, endpoint(http.MethodGet, "/user_search/{id}", strconv.Itoa(userID)).expect("user_id", "name"), &out)
	return out, err
}

func (c *Client) User(ctx context.Context, userID int) (models.PublicUser, error) {
	var out models.PublicUser
	err := c.do(ctx, endpoint(http.MethodGet, "/user/{id}", strconv.Itoa(userID)).expect("user_id"), &out)
	return out, err
}
