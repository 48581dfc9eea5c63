package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

type fakeCatalog struct {
	CatalogAPI
	queries []models.ProductQuery
}

func (f *fakeCatalog) Products(_ context.Context, q models.ProductQuery) (models.ProductPage, error) {
	f.queries = append(f.queries, q)
	rating := 3.6
	return models.ProductPage{
		Products:   []models.ProductCard{{ProductID: 1, ProductName: "Blue <b>Rose</b>", MinPrice: 4.5, AvgRating: &rating, TotalReviews: 2}},
		TotalPages: 5,
	}, nil
}

func TestProductsView_TriggersResetPage(t *testing.T) {
	api := &fakeCatalog{}
	v := NewProductsView(api, nil, "flowers")
	ctx := t.Context()

	require.NoError(t, v.Load(ctx))
	require.NoError(t, v.SetPage(ctx, 4))
	require.NoError(t, v.SetFilter(ctx, models.FilterPriceLowHigh))
	require.NoError(t, v.SetPage(ctx, 2))
	require.NoError(t, v.SetSearch(ctx, "rose"))

	want := []models.ProductQuery{
		{Category: "flowers", Page: 1, Filter: models.FilterNone},
		{Category: "flowers", Page: 4, Filter: models.FilterNone},
		{Category: "flowers", Page: 1, Filter: models.FilterPriceLowHigh},
		{Category: "flowers", Page: 2, Filter: models.FilterPriceLowHigh},
		{Category: "flowers", Page: 1, Filter: models.FilterPriceLowHigh, Search: "rose"},
	}
	if diff := cmp.Diff(want, api.queries); diff != "" {
		t.Errorf("queries mismatch (-want +got):\n%s", diff)
	}
}

func TestProductsView_RejectsUnknownFilterAndCategory(t *testing.T) {
	api := &fakeCatalog{}
	v := NewProductsView(api, nil, "")
	require.ErrorIs(t, v.SetFilter(t.Context(), "cheapest"), ErrUsage)
	require.ErrorIs(t, v.SetCategory(t.Context(), "toys"), ErrUsage)
	assert.Empty(t, api.queries)
	assert.Equal(t, "Products: all", v.Title())
}

func TestProductsView_RenderAndOpen(t *testing.T) {
	v := NewProductsView(&fakeCatalog{}, nil, "all")
	require.NoError(t, v.Load(t.Context()))

	var buf bytes.Buffer
	v.Render(&buf)
	assert.Contains(t, buf.String(), "Blue Rose")
	assert.Contains(t, buf.String(), "$4.50")
	assert.Contains(t, buf.String(), "★★★☆☆")
	assert.Contains(t, buf.String(), "page 1 of 5")

	out, err := v.Handle(t.Context(), "open", []string{"1"})
	require.NoError(t, err)
	assert.Equal(t, "/product/Blue%20%3Cb%3ERose%3C%2Fb%3E", out.Navigate)

	_, err = v.Handle(t.Context(), "open", []string{"2"})
	require.ErrorIs(t, err, ErrUsage)
}

type longNameCatalog struct {
	CatalogAPI
	name string
}

func (f longNameCatalog) Products(context.Context, models.ProductQuery) (models.ProductPage, error) {
	return models.ProductPage{Products: []models.ProductCard{{ProductID: 1, ProductName: f.name}}, TotalPages: 1}, nil
}

func TestProductsView_LongNamesAreCutInTheListing(t *testing.T) {
	name := strings.Repeat("Giant ", 20) + "Sunflower"
	v := NewProductsView(longNameCatalog{name: name}, nil, "all")
	require.NoError(t, v.Load(t.Context()))

	var buf bytes.Buffer
	v.Render(&buf)
	assert.NotContains(t, buf.String(), "Sunflower")
	assert.Contains(t, buf.String(), "Giant Giant")
	assert.Contains(t, buf.String(), "…")

	out, err := v.Handle(t.Context(), "open", []string{"1"})
	require.NoError(t, err)
	assert.Equal(t, ProductPath(name), out.Navigate)
}
