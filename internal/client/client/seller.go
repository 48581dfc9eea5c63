package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

func pageQuery(page, perPage int) url.Values {
	v := url.Values{}
	v.Set("currentPage", strconv.Itoa(page))
	v.Set("itemsPerPage", strconv.Itoa(perPage))
	return v
}

func (c *Client) Inventory(ctx context.Context, page, perPage int) (models.InventoryPage, error) {
	var out models.InventoryPage
	err := c.do(ctx, endpoint(http.MethodGet, "/my_inventory").withQuery(pageQuery(page, perPage)).
		expect("products", "total_items"), &out)
	return out, err
}

func (c *Client) IncreaseStock(ctx context.Context, productID, quantity int) error {
	return c.do(ctx, endpoint(http.MethodPost, "/increase_stock").
		withBody(models.StockChange{ProductID: productID, Quantity: quantity}), nil)
}

func (c *Client) ChangePrice(ctx context.Context, productID int, price float64) error {
	return c.do(ctx, endpoint(http.MethodPost, "/change_price").
		withBody(models.PriceChange{ProductID: productID, Price: price}), nil)
}

func (c *Client) RemoveListing(ctx context.Context, productID int) error {
	return c.do(ctx, endpoint(http.MethodPost, "/remove_listing").
		withBody(map[string]int{"product_id": productID}), nil)
}

func (c *Client) AddToInventory(ctx context.Context, l models.NewListing) error {
	return c.do(ctx, endpoint(http.MethodPost, "/add_to_inventory").withBody(l), nil)
}

// SoldItems lists order lines for the seller, fulfilled or not.
func (c *Client) SoldItems(ctx context.Context, fulfilled bool, page, perPage int) (models.SoldItemsPage, error) {
	route := "/get_unfulfilled_ordered_items"
	if fulfilled {
		route = "/get_fulfilled_ordered_items"
	}

	var out models.SoldItemsPage
	err := c.do(ctx, endpoint(http.MethodGet, route).withQuery(pageQuery(page, perPage)).expect("total"), &out)
	return out, err
}

func (c *Client) FulfillItem(ctx context.Context, productID, purchaseID int) error {
	return c.do(ctx, endpoint(http.MethodPost, "/fulfill_item").
		withBody(map[string]int{"product_id": productID, "purchase_id": purchaseID}), nil)
}
