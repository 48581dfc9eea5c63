package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

// ReviewSortHelpful is the order every review listing asks for.
const (
	ReviewSortHelpful = "helpful"
)

func (c *Client) ProductRatingSummary(ctx context.Context, name string) (models.RatingSummary, error) {
	var out models.RatingSummary
	err := c.do(ctx, endpoint(http.MethodGet, "/get_product_rating_summary/{name}", name).
		expect("average_rating", "total_ratings"), &out)
	return out, err
}

func (c *Client) SellerRatingSummary(ctx context.Context, sellerID int) (models.RatingSummary, error) {
	var out models.RatingSummary
	err := c.do(ctx, endpoint(http.MethodGet, "/get_seller_review_summary/{id}", strconv.Itoa(sellerID)).
		expect("average_rating", "total_ratings"), &out)
	return out, err
}

func (c *Client) ProductReviews(ctx context.Context, name string, page, perPage int) (models.ProductReviewPage, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("itemsPerPage", strconv.Itoa(perPage))
	v.Set("sortBy", ReviewSortHelpful)

	var out models.ProductReviewPage
	err := c.do(ctx, endpoint(http.MethodGet, "/get_paginated_reviews_for_product/{name}", name).
		withQuery(v).expect("product_reviews", "total_pages"), &out)
	return out, err
}

func (c *Client) SellerReviews(ctx context.Context, sellerID, page, perPage int) (models.SellerReviewPage, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("itemsPerPage", strconv.Itoa(perPage))
	v.Set("sortBy", ReviewSortHelpful)

	var out models.SellerReviewPage
	err := c.do(ctx, endpoint(http.MethodGet, "/get_paginated_reviews_for_seller/{id}", strconv.Itoa(sellerID)).
		withQuery(v).expect("seller_reviews", "total_pages"), &out)
	return out, err
}

func authorQuery(productPage, sellerPage, perPage int) url.Values {
	v := url.Values{}
	v.Set("productPage", strconv.Itoa(productPage))
	v.Set("itemsPerProductPage", strconv.Itoa(perPage))
	v.Set("sellerPage", strconv.Itoa(sellerPage))
	v.Set("itemsPerSellerPage", strconv.Itoa(perPage))
	return v
}

// MyReviews lists the reviews written by the logged-in user.
func (c *Client) MyReviews(ctx context.Context, productPage, sellerPage, perPage int) (models.ReviewsByAuthor, error) {
	var out models.ReviewsByAuthor
	err := c.do(ctx, endpoint(http.MethodGet, "/my_reviews").withQuery(authorQuery(productPage, sellerPage, perPage)).
		expect("product_reviews", "seller_reviews"), &out)
	return out, err
}

func (c *Client) UserReviews(ctx context.Context, userID, productPage, sellerPage, perPage int) (models.ReviewsByAuthor, error) {
	var out models.ReviewsByAuthor
	err := c.do(ctx, endpoint(http.MethodGet, "/user_reviews/{id}", strconv.Itoa(userID)).
		withQuery(authorQuery(productPage, sellerPage, perPage)).
		expect("product_reviews", "seller_reviews"), &out)
	return out, err
}

type purchaseCount struct {
	CountPurchases int `json:"count_purchases"`
}

// ProductPurchases is how many fulfilled purchases of name the user has;
// zero means they may not review it.
func (c *Client) ProductPurchases(ctx context.Context, name string) (int, error) {
	var out purchaseCount
	err := c.do(ctx, endpoint(http.MethodGet, "/count_fulfilled_purchases_of_product/{name}", name).
		expect("count_purchases"), &out)
	return out.CountPurchases, err
}

func (c *Client) SellerPurchases(ctx context.Context, sellerID int) (int, error) {
	var out purchaseCount
	err := c.do(ctx, endpoint(http.MethodGet, "/count_fulfilled_purchases_of_seller_products/{id}", strconv.Itoa(sellerID)).
		expect("count_purchases"), &out)
	return out.CountPurchases, err
}

// optionalObject decodes a value the backend sends either as an object or,
// when there is nothing, as an empty list.
func optionalObject[T models.Validator](raw json.RawMessage) (*T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '[' || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return &v, nil
}

// MyProductReview returns the user's review of name, or nil.
func (c *Client) MyProductReview(ctx context.Context, name string) (*models.ProductReview, error) {
	var out struct {
		Review json.RawMessage `json:"product_review"`
	}
	if err := c.do(ctx, endpoint(http.MethodGet, "/get_product_review/{name}", name).expect("product_review"), &out); err != nil {
		return nil, err
	}
	return optionalObject[models.ProductReview](out.Review)
}

func (c *Client) MySellerReview(ctx context.Context, sellerID int) (*models.SellerReview, error) {
	var out struct {
		Review json.RawMessage `json:"seller_review"`
	}
	if err := c.do(ctx, endpoint(http.MethodGet, "/get_seller_review/{id}", strconv.Itoa(sellerID)).expect("seller_review"), &out); err != nil {
		return nil, err
	}
	return optionalObject[models.SellerReview](out.Review)
}

// SaveProductReview creates the review, or edits the existing one when
// exists is true.
func (c *Client) SaveProductReview(ctx context.Context, exists bool, r models.ProductReviewRequest) error {
	route := "/new_product_review"
	if exists {
		route = "/edit_product_review"
	}
	return c.do(ctx, endpoint(http.MethodPost, route).withBody(r), nil)
}

func (c *Client) SaveSellerReview(ctx context.Context, exists bool, r models.SellerReviewRequest) error {
	route := "/new_seller_review"
	if exists {
		route = "/edit_seller_review"
	}
	return c.do(ctx, endpoint(http.MethodPost, route).withBody(r), nil)
}

func (c *Client) DeleteProductReview(ctx context.Context, name string) error {
	return c.do(ctx, endpoint(http.MethodDelete, "/delete_product_review/{name}", name), nil)
}

func (c *Client) DeleteSellerReview(ctx context.Context, sellerID int) error {
	return c.do(ctx, endpoint(http.MethodDelete, "/delete_seller_review/{id}", strconv.Itoa(sellerID)), nil)
}

type upvoteStatus struct {
	Status int `json:"status"`
}

// ProductReviewUpvoted reports whether the user upvoted buyerID's review of
// name.
func (c *Client) ProductReviewUpvoted(ctx context.Context, name string, buyerID int) (bool, error) {
	var out upvoteStatus
	err := c.do(ctx, endpoint(http.MethodGet, "/check_user_product_review_upvote/{name}/{buyer}", name, strconv.Itoa(buyerID)).
		expect("status"), &out)
	return out.Status == 1, err
}

func (c *Client) SellerReviewUpvoted(ctx context.Context, sellerID, buyerID int) (bool, error) {
	var out upvoteStatus
	err := c.do(ctx, endpoint(http.MethodGet, "/check_user_seller_review_upvote/{seller}/{buyer}", strconv.Itoa(sellerID), strconv.Itoa(buyerID)).
		expect("status"), &out)
	return out.Status == 1, err
}

// SetProductReviewUpvote adds (on) or removes the user's upvote.
func (c *Client) SetProductReviewUpvote(ctx context.Context, name string, buyerID int, on bool) error {
	route := "/remove_upvote_product_review/{name}/{buyer}"
	if on {
		route = "/upvote_product_review/{name}/{buyer}"
	}
	return c.do(ctx, endpoint(http.MethodPost, route, name, strconv.Itoa(buyerID)), nil)
}

func (c *Client) SetSellerReviewUpvote(ctx context.Context, sellerID, buyerID int, on bool) error {
	route := "/remove_upvote_seller_review/{seller}/{buyer}"
	if on {
		route = "/upvote_seller_review/{seller}/{buyer}"
	}
	return c.do(ctx, endpoint(http.MethodPost, route, strconv.Itoa(sellerID), strconv.Itoa(buyerID)), nil)
}
