package views

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/client/services"
)

type fakeAccount struct {
	AccountAPI
	account models.Account
	seller  bool
	updates map[string]any
}

func (f *fakeAccount) Account(context.Context) (models.Account, error) { return f.account, nil }
func (f *fakeAccount) IsSeller(context.Context) (bool, error)          { return f.seller, nil }

func (f *fakeAccount) UpdateAccountField(_ context.Context, field string, value any) error {
	if f.updates == nil {
		f.updates = map[string]any{}
	}
	f.updates[field] = value
	if field == models.FieldBalance {
		f.account.Balance = models.Money(value.(float64))
	}
	return nil
}

func loadedProfile(t *testing.T, balance float64) (*ProfileView, *fakeAccount) {
	t.Helper()
	api := &fakeAccount{account: models.Account{UserID: 1, Email: "ann@example.com", Balance: models.Money(balance)}}
	v := NewProfileView(api, nil)
	require.NoError(t, v.Load(t.Context()))
	return v, api
}

func TestProfileView_DepositAndWithdraw(t *testing.T) {
	v, api := loadedProfile(t, 10)

	require.NoError(t, v.Deposit(t.Context(), 5.5))
	assert.InDelta(t, 15.5, api.updates[models.FieldBalance], 1e-9)

	require.NoError(t, v.Withdraw(t.Context(), 15.5))
	assert.InDelta(t, 0.0, api.updates[models.FieldBalance], 1e-9)
}

func TestProfileView_BalanceChecks(t *testing.T) {
	v, api := loadedProfile(t, 10)

	require.ErrorIs(t, v.Deposit(t.Context(), 0), ErrInvalidAmount)
	require.ErrorIs(t, v.Withdraw(t.Context(), -3), ErrInvalidAmount)
	require.ErrorIs(t, v.Withdraw(t.Context(), 10.01), ErrInsufficientFunds)
	assert.Empty(t, api.updates)

	_, err := v.Handle(t.Context(), "deposit", []string{"abc"})
	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, "Insufficient funds for withdrawal. Transaction canceled.", ErrInsufficientFunds.Error())
}

func TestProfileView_UpdateField(t *testing.T) {
	v, api := loadedProfile(t, 0)

	out, err := v.Handle(t.Context(), "set", []string{"address", "1", "Main", "St"})
	require.NoError(t, err)
	assert.Equal(t, "address updated.", out.Notice)
	assert.Equal(t, "1 Main St", api.updates["address"])

	_, err = v.Handle(t.Context(), "set", []string{"balance", "100"})
	require.ErrorIs(t, err, ErrUsage)

	require.ErrorIs(t, v.ChangePassword(t.Context(), "a", "b"), services.ErrPasswordMismatch)
	require.NoError(t, v.ChangePassword(t.Context(), "new", "new"))
	assert.Equal(t, "new", api.updates["password"])
}

func TestProfileView_TabsDependOnSellerStatus(t *testing.T) {
	v, api := loadedProfile(t, 0)
	assert.Contains(t, v.Tabs(), TabBecomeSeller)

	_, err := v.Handle(t.Context(), "tab", []string{TabInventory})
	require.ErrorIs(t, err, ErrUsage)

	api.seller = true
	require.NoError(t, v.Load(t.Context()))
	out, err := v.Handle(t.Context(), "tab", []string{TabInventory})
	require.NoError(t, err)
	assert.Equal(t, "/account/inventory", out.Navigate)
}

type fakeHistory struct {
	HistoryAPI
	calls []string
}

func (f *fakeHistory) PurchaseHistory(_ context.Context, page, _ int, sortBy string) (models.PurchasePage, error) {
	f.calls = append(f.calls, fmt.Sprintf("%s@%d", sortBy, page))
	return models.PurchasePage{TotalPages: 4}, nil
}

func TestPurchaseHistoryView_SortResetsPage(t *testing.T) {
	api := &fakeHistory{}
	v := NewPurchaseHistoryView(api, nil)
	ctx := t.Context()

	require.NoError(t, v.Load(ctx))
	_, err := v.Handle(ctx, "page", []string{"3"})
	require.NoError(t, err)
	_, err = v.Handle(ctx, "sort", []string{models.SortByTotal})
	require.NoError(t, err)
	_, err = v.Handle(ctx, "sort", []string{"price"})
	require.ErrorIs(t, err, ErrUsage)

	assert.Equal(t, []string{"date_time@1", "date_time@3", "total_amount@1"}, api.calls)
}
