package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

func (c *Client) Products(ctx context.Context, q models.ProductQuery) (models.ProductPage, error) {
	v := url.Values{}
	v.Set("category", q.Category)
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("filter", q.Filter)
	if q.Search != "" {
		v.Set("search", q.Search)
	}

	var out models.ProductPage
	err := c.do(ctx, endpoint(http.MethodGet, "/products").withQuery(v).expect("products", "totalPages"), &out)
	return out, err
}

// Product returns the catalog record for name. The backend answers with a
// list; an empty list is ErrNotFound.
func (c *Client) Product(ctx context.Context, name string) (models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, endpoint(http.MethodGet, "/products/{name}", name), &out); err != nil {
		return models.Product{}, err
	}
	if len(out) == 0 {
		return models.Product{}, fmt.Errorf("product %q: %w", name, ErrNotFound)
	}
	if err := out[0].Validate(); err != nil {
		return models.Product{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return out[0], nil
}

func (c *Client) Listings(ctx context.Context, name string) ([]models.Listing, error) {
	var out []models.Listing
	if err := c.do(ctx, endpoint(http.MethodGet, "/products_listings/{name}", name), &out); err != nil {
		return nil, err
	}
	for i, l := range out {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("%w: listings[%d]: %w", ErrInvalidResponse, i, err)
		}
	}
	return out, nil
}

func (c *Client) SellerProducts(ctx context.Context, sellerID, page, pageSize int) (models.SellerProductPage, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("page_size", strconv.Itoa(pageSize))

	var out models.SellerProductPage
	err := c.do(ctx, endpoint(http.MethodGet, "/get_paginated_products_by_seller/{id}", strconv.Itoa(sellerID)).
		withQuery(v).expect("products", "total_count"), &out)
	return out, err
}

func (c *Client) CheckAvailability(ctx context.Context, name string) (models.Availability, error) {
	var out models.Availability
	err := c.do(ctx, endpoint(http.MethodPost, "/check_availability").
		withBody(map[string]string{"product_name": name}).expect("availability"), &out)
	return out, err
}

func (c *Client) AddToCatalog(ctx context.Context, e models.CatalogEntry) error {
	return c.do(ctx, endpoint(http.MethodPost, "/add_to_catalog").withBody(e), nil)
}

func (c *Client) UpdateCatalog(ctx context.Context, e models.CatalogEntry) error {
	return c.do(ctx, endpoint(http.MethodPost, "/update_catalog").withBody(e), nil)
}
