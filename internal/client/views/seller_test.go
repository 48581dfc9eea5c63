package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

type fakeListings struct {
	ListingAPI
	catalog   map[string]models.Availability
	calls     []string
	inventory []models.NewListing
}

func (f *fakeListings) CheckAvailability(_ context.Context, name string) (models.Availability, error) {
	f.calls = append(f.calls, "check")
	if a, ok := f.catalog[name]; ok {
		return a, nil
	}
	return models.Availability{Availability: true}, nil
}

func (f *fakeListings) AddToCatalog(_ context.Context, e models.CatalogEntry) error {
	f.calls = append(f.calls, "catalog")
	f.catalog[e.ProductName] = models.Availability{Description: e.Description, Category: e.Category}
	return nil
}

func (f *fakeListings) AddToInventory(_ context.Context, l models.NewListing) error {
	f.calls = append(f.calls, "inventory")
	f.inventory = append(f.inventory, l)
	return nil
}

func TestAddProduct_NewProductGoesToCatalogFirst(t *testing.T) {
	api := &fakeListings{catalog: map[string]models.Availability{}}
	err := AddProduct(t.Context(), api, ListingForm{Name: "Mint", Category: "Herbs", Price: 2, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"check", "catalog", "inventory"}, api.calls)
	assert.Equal(t, []models.NewListing{{ProductName: "Mint", Price: 2, Quantity: 3}}, api.inventory)
}

func TestAddProduct_ExistingProductSkipsCatalog(t *testing.T) {
	api := &fakeListings{catalog: map[string]models.Availability{"Mint": {Category: "Herbs"}}}
	require.NoError(t, AddProduct(t.Context(), api, ListingForm{Name: "Mint", Price: 2, Quantity: 3}))
	assert.Equal(t, []string{"check", "inventory"}, api.calls)
}

func TestAddProduct_RequiresPriceAndQuantity(t *testing.T) {
	api := &fakeListings{catalog: map[string]models.Availability{}}
	require.ErrorIs(t, AddProduct(t.Context(), api, ListingForm{Name: "Mint", Quantity: 3}), ErrMissingListing)
	require.ErrorIs(t, AddProduct(t.Context(), api, ListingForm{Name: "Mint", Price: 1}), ErrMissingListing)
	assert.Empty(t, api.calls)
}

func TestAddProductView_KnownProductLocksCatalogFields(t *testing.T) {
	api := &fakeListings{catalog: map[string]models.Availability{"Mint": {Category: "Herbs", Description: "cool"}}}
	v := NewAddProductView(api, "Add a product")
	ctx := t.Context()

	_, err := v.Handle(ctx, "name", []string{"Mint"})
	require.NoError(t, err)
	assert.Equal(t, "cool", v.Form().Description)

	_, err = v.Handle(ctx, "description", []string{"warm"})
	require.Error(t, err)

	for _, cmd := range [][]string{{"price", "2.5"}, {"qty", "4"}} {
		_, err := v.Handle(ctx, cmd[0], cmd[1:])
		require.NoError(t, err)
	}
	out, err := v.Handle(ctx, "submit", nil)
	require.NoError(t, err)
	assert.Equal(t, "/account/inventory", out.Navigate)
	assert.Equal(t, []models.NewListing{{ProductName: "Mint", Price: 2.5, Quantity: 4}}, api.inventory)
}

type fakeOrders struct {
	OrdersAPI
	pending   []models.SoldItem
	fulfilled [][2]int
}

func (f *fakeOrders) SoldItems(_ context.Context, done bool, _, _ int) (models.SoldItemsPage, error) {
	if done {
		return models.SoldItemsPage{}, nil
	}
	return models.SoldItemsPage{Unfulfilled: f.pending, Total: len(f.pending)}, nil
}

func (f *fakeOrders) FulfillItem(_ context.Context, productID, purchaseID int) error {
	f.fulfilled = append(f.fulfilled, [2]int{productID, purchaseID})
	f.pending = f.pending[1:]
	return nil
}

func TestOrdersView_Fulfill(t *testing.T) {
	api := &fakeOrders{pending: []models.SoldItem{{ProductID: 3, PurchaseID: 40, Name: "Mint", OrderQuantity: 1}}}
	v := NewOrdersView(api, nil, false)
	require.NoError(t, v.Load(t.Context()))

	out, err := v.Handle(t.Context(), "fulfill", []string{"1"})
	require.NoError(t, err)
	assert.Equal(t, "Marked as fulfilled.", out.Notice)
	assert.Equal(t, [][2]int{{3, 40}}, api.fulfilled)

	done := NewOrdersView(api, nil, true)
	_, err = done.Handle(t.Context(), "fulfill", []string{"1"})
	require.ErrorIs(t, err, ErrUnknownCommand)
}
