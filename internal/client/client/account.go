package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

func (c *Client) Account(ctx context.Context) (models.Account, error) {
	var out models.Account
	err := c.do(ctx, endpoint(http.MethodGet, "/account").
		expect("user_id", "firstname", "lastname", "email", "address", "balance"), &out)
	return out, err
}

// UpdateAccountField sets one account field. value is a string for text
// fields and a number for balance.
func (c *Client) UpdateAccountField(ctx context.Context, field string, value any) error {
	return c.do(ctx, endpoint(http.MethodPatch, "/account/update/{field}", field).
		withBody(map[string]any{"value": value}), nil)
}

func (c *Client) IsSeller(ctx context.Context) (bool, error) {
	var out models.SellerStatus
	err := c.do(ctx, endpoint(http.MethodGet, "/is_seller").expect("seller_status"), &out)
	return out.SellerStatus, err
}

func (c *Client) UserIsSeller(ctx context.Context, userID int) (bool, error) {
	var out models.SellerStatus
	err := c.do(ctx, endpoint(http.MethodGet, "/is_seller/{id}", strconv.Itoa(userID)).expect("seller_status"), &out)
	return out.SellerStatus, err
}

func (c *Client) PurchaseHistory(ctx context.Context, page, perPage int, sortBy string) (models.PurchasePage, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("items_per_page", strconv.Itoa(perPage))
	v.Set("sort_by", sortBy)

	var out models.PurchasePage
	err := c.do(ctx, endpoint(http.MethodGet, "/purchase_history").withQuery(v).expect("purchases", "total_pages"), &out)
	return out, err
}

func (c *Client) OrderItems(ctx context.Context, purchaseID int) (models.OrderItems, error) {
	var out models.OrderItems
	err := c.do(ctx, endpoint(http.MethodGet, "/buys-by-order/{id}", strconv.Itoa(purchaseID)).expect("items"), &out)
	return out, err
}
