package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

func (c *Client) Cart(ctx context.Context, page, perPage int) (models.CartPage, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("itemsPerPage", strconv.Itoa(perPage))

	var out models.CartPage
	err := c.do(ctx, endpoint(http.MethodGet, "/get-paginated-carts").withQuery(v).
		expect("items", "total_price", "total_pages"), &out)
	return out, err
}

func (c *Client) AddToCart(ctx context.Context, productID int) error {
	return c.do(ctx, endpoint(http.MethodPost, "/add-to-cart/{id}", strconv.Itoa(productID)), nil)
}

func (c *Client) DecreaseQuantity(ctx context.Context, productID int) error {
	return c.do(ctx, endpoint(http.MethodPatch, "/decrease-quantity/{id}", strconv.Itoa(productID)), nil)
}

func (c *Client) RemoveFromCart(ctx context.Context, productID int) error {
	return c.do(ctx, endpoint(http.MethodDelete, "/delete-item/{id}", strconv.Itoa(productID)), nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, endpoint(http.MethodDelete, "/clear-cart"), nil)
}

func (c *Client) PlaceOrder(ctx context.Context) (models.OrderReceipt, error) {
	var out models.OrderReceipt
	err := c.do(ctx, endpoint(http.MethodPost, "/place-order").expect("purchase_id", "date_time"), &out)
	return out, err
}
