package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

type signedIn bool

func (s signedIn) Read() bool { return bool(s) }

type fakeProduct struct {
	ProductAPI
	added     []int
	upvotes   map[int]bool
	purchases int
	mine      *models.ProductReview
	saved     []models.ProductReviewRequest
	savedNew  []bool
}

func newFakeProduct() *fakeProduct {
	return &fakeProduct{upvotes: map[int]bool{}}
}

func (f *fakeProduct) Product(_ context.Context, name string) (models.Product, error) {
	return models.Product{ProductID: 1, ProductName: name, Category: "Herbs", Description: "<p>fresh</p>"}, nil
}

func (f *fakeProduct) Listings(context.Context, string) ([]models.Listing, error) {
	return []models.Listing{
		{ProductID: 11, ProductName: "Basil", SellerID: 5, SellerName: "Bo", Price: 3, Quantity: 2},
		{ProductID: 12, ProductName: "Basil", SellerID: 6, SellerName: "Cy", Price: 2, Quantity: 0},
	}, nil
}

func (f *fakeProduct) ProductRatingSummary(context.Context, string) (models.RatingSummary, error) {
	return models.RatingSummary{}, nil
}

func (f *fakeProduct) ProductReviews(context.Context, string, int, int) (models.ProductReviewPage, error) {
	return models.ProductReviewPage{
		ProductReviews: []models.ProductReview{{ProductName: "Basil", BuyerID: 7, Firstname: "Di", Rating: 4, UpvoteCount: 1}},
		TotalPages:     1,
	}, nil
}

func (f *fakeProduct) ProductReviewUpvoted(_ context.Context, _ string, buyer int) (bool, error) {
	return f.upvotes[buyer], nil
}

func (f *fakeProduct) SetProductReviewUpvote(_ context.Context, _ string, buyer int, on bool) error {
	f.upvotes[buyer] = on
	return nil
}

func (f *fakeProduct) AddToCart(_ context.Context, id int) error {
	f.added = append(f.added, id)
	return nil
}

func (f *fakeProduct) ProductPurchases(context.Context, string) (int, error) { return f.purchases, nil }

func (f *fakeProduct) MyProductReview(context.Context, string) (*models.ProductReview, error) {
	return f.mine, nil
}

func (f *fakeProduct) SaveProductReview(_ context.Context, exists bool, r models.ProductReviewRequest) error {
	f.saved = append(f.saved, r)
	f.savedNew = append(f.savedNew, !exists)
	f.mine = &models.ProductReview{ProductName: r.ProductName, Rating: r.Rating, Comment: r.Comment}
	return nil
}

func TestProductView_LoggedOut(t *testing.T) {
	api := newFakeProduct()
	v := NewProductView(api, signedIn(false), nil, "Basil")
	require.NoError(t, v.Load(t.Context()))

	var buf bytes.Buffer
	v.Render(&buf)
	assert.Contains(t, buf.String(), "Login to purchase")
	assert.Contains(t, buf.String(), "Sold Out")
	assert.Contains(t, buf.String(), "fresh")
	assert.NotContains(t, buf.String(), "<p>")

	_, err := v.Handle(t.Context(), "buy", []string{"1"})
	require.ErrorIs(t, err, ErrLoginRequired)
	assert.Empty(t, api.added)
}

func TestProductView_BuyAndUpvote(t *testing.T) {
	api := newFakeProduct()
	v := NewProductView(api, signedIn(true), nil, "Basil")
	require.NoError(t, v.Load(t.Context()))

	out, err := v.Handle(t.Context(), "buy", []string{"1"})
	require.NoError(t, err)
	assert.Equal(t, "Added to cart.", out.Notice)
	assert.Equal(t, []int{11}, api.added)

	_, err = v.Handle(t.Context(), "buy", []string{"2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sold out")

	require.NoError(t, v.ToggleUpvote(t.Context(), 0))
	assert.True(t, api.upvotes[7])
	require.NoError(t, v.ToggleUpvote(t.Context(), 0))
	assert.False(t, api.upvotes[7])

	seller, err := v.Handle(t.Context(), "seller", []string{"2"})
	require.NoError(t, err)
	assert.Equal(t, "/user/6", seller.Navigate)
}

func TestProductView_OwnReview(t *testing.T) {
	api := newFakeProduct()
	v := NewProductView(api, signedIn(true), nil, "Basil")
	require.NoError(t, v.Load(t.Context()))

	_, err := v.Handle(t.Context(), "review", []string{"5", "great"})
	require.ErrorIs(t, err, ErrNotEligible)

	api.purchases = 1
	require.NoError(t, v.Load(t.Context()))

	_, err = v.Handle(t.Context(), "review", []string{"6"})
	require.ErrorIs(t, err, models.ErrInvalidRating)

	_, err = v.Handle(t.Context(), "review", []string{"5", "very", "good"})
	require.NoError(t, err)
	_, err = v.Handle(t.Context(), "review", []string{"4"})
	require.NoError(t, err)

	require.Len(t, api.saved, 2)
	assert.Equal(t, "very good", api.saved[0].Comment)
	assert.Equal(t, []bool{true, false}, api.savedNew)

	var buf bytes.Buffer
	v.Render(&buf)
	assert.Contains(t, buf.String(), "My review")
	assert.Contains(t, buf.String(), "★★★★☆")
}
