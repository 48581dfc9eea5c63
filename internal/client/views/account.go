package views

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/client/services"
)

// Account tabs. The seller tabs are shown to sellers, become-seller to
// everybody else.
const (
	TabHistory      = "history"
	TabSocial       = "social"
	TabInventory    = "inventory"
	TabUnfulfilled  = "unfulfilled"
	TabFulfilled    = "fulfilled"
	TabBecomeSeller = "become-seller"
)

type profile struct {
	account models.Account
	seller  bool
}

// ProfileView is the account page: profile fields, balance and the list of
// account tabs.
type ProfileView struct {
	api AccountAPI
	res *Resource[profile]
}

func NewProfileView(api AccountAPI, stale StaleRecorder) *ProfileView {
	return &ProfileView{api: api, res: NewResource[profile]("profile", stale)}
}

func (v *ProfileView) Title() string { return "My Account" }

func (v *ProfileView) Load(ctx context.Context) error {
	return v.res.Load(ctx, func(ctx context.Context) (profile, error) {
		a, err := v.api.Account(ctx)
		if err != nil {
			return profile{}, err
		}
		seller, err := v.api.IsSeller(ctx)
		if err != nil {
			return profile{}, err
		}
		return profile{account: a, seller: seller}, nil
	})
}

func (v *ProfileView) Tabs() []string {
	p, _ := v.res.Get()
	if p.seller {
		return []string{TabHistory, TabSocial, TabInventory, TabUnfulfilled, TabFulfilled}
	}
	return []string{TabHistory, TabSocial, TabBecomeSeller}
}

func (v *ProfileView) UpdateField(ctx context.Context, field, value string) error {
	if !slices.Contains(models.AccountFields, field) {
		return fmt.Errorf("%w: field is one of %v", ErrUsage, models.AccountFields)
	}
	if field == models.FieldPassword {
		return fmt.Errorf("%w: use the password command", ErrUsage)
	}
	if err := v.api.UpdateAccountField(ctx, field, value); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *ProfileView) ChangePassword(ctx context.Context, password, confirm string) error {
	if password != confirm {
		return services.ErrPasswordMismatch
	}
	if password == "" {
		return fmt.Errorf("%w: password is empty", ErrUsage)
	}
	return v.api.UpdateAccountField(ctx, models.FieldPassword, password)
}

func (v *ProfileView) Deposit(ctx context.Context, amount float64) error {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}
	return v.moveBalance(ctx, amount)
}

func (v *ProfileView) Withdraw(ctx context.Context, amount float64) error {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}
	return v.moveBalance(ctx, -amount)
}

// moveBalance writes balance+delta. The backend takes the new balance, not
// the movement, so it is computed from the last loaded account.
func (v *ProfileView) moveBalance(ctx context.Context, delta float64) error {
	p, ok := v.res.Get()
	if !ok {
		return fmt.Errorf("%w: account not loaded", ErrUsage)
	}
	next := p.account.Balance.Float() + delta
	if next < 0 {
		return ErrInsufficientFunds
	}
	if err := v.api.UpdateAccountField(ctx, models.FieldBalance, next); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *ProfileView) Render(w io.Writer) {
	heading(w, v.Title())
	p, ok := v.res.Get()
	if !ok {
		empty(w, "loading account...")
		return
	}
	a := p.account
	fmt.Fprintf(w, "Name:     %s %s\n", format.Plain(a.Firstname), format.Plain(a.Lastname))
	fmt.Fprintf(w, "Email:    %s\n", format.Plain(a.Email))
	fmt.Fprintf(w, "Address:  %s\n", format.Plain(a.Address))
	fmt.Fprintf(w, "Balance:  %s\n", format.Currency(a.Balance.Float()))
	fmt.Fprintf(w, "User ID:  %d\n", a.UserID)
	if p.seller {
		fmt.Fprintln(w, format.Success("Seller account"))
	}
	fmt.Fprintf(w, "Tabs: %v\n", v.Tabs())
}

var profileCommands = []Command{
	{Name: "set", Args: "<field> <value>", Help: "change firstname, lastname, email or address"},
	{Name: "password", Args: "[new] [confirm]", Help: "change your password"},
	{Name: "deposit", Args: "<amount>", Help: "add money to your balance"},
	{Name: "withdraw", Args: "<amount>", Help: "take money out of your balance"},
	{Name: "tab", Args: "<name>", Help: "open an account tab"},
}

func (v *ProfileView) Commands() []Command { return profileCommands }

func (v *ProfileView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	switch name {
	case "set":
		if len(args) < 2 {
			return Outcome{}, usage(profileCommands[0])
		}
		if err := v.UpdateField(ctx, args[0], restArg(args, 1)); err != nil {
			return Outcome{}, err
		}
		return Outcome{Notice: args[0] + " updated."}, nil
	case "password":
		if len(args) != 2 {
			return Outcome{}, usage(profileCommands[1])
		}
		if err := v.ChangePassword(ctx, args[0], args[1]); err != nil {
			return Outcome{}, err
		}
		return Outcome{Notice: "Password updated."}, nil
	case "deposit", "withdraw":
		amount, ok := floatArg(args, 0)
		if !ok {
			return Outcome{}, ErrInvalidAmount
		}
		move := v.Deposit
		if name == "withdraw" {
			move = v.Withdraw
		}
		if err := move(ctx, amount); err != nil {
			return Outcome{}, err
		}
		return Outcome{Notice: "Balance updated."}, nil
	case "tab":
		if len(args) != 1 || !slices.Contains(v.Tabs(), args[0]) {
			return Outcome{}, fmt.Errorf("%w: tab is one of %v", ErrUsage, v.Tabs())
		}
		return Outcome{Navigate: "/account/" + args[0]}, nil
	}
	return Outcome{}, ErrUnknownCommand
}

const PurchasesPerPage = 3

// PurchaseHistoryView lists the user's orders. A new sort order goes back
// to page one.
type PurchaseHistoryView struct {
	api    HistoryAPI
	res    *Resource[models.PurchasePage]
	sortBy string
	pages  pager
}

func NewPurchaseHistoryView(api HistoryAPI, stale StaleRecorder) *PurchaseHistoryView {
	return &PurchaseHistoryView{
		api:    api,
		res:    NewResource[models.PurchasePage]("purchase_history", stale),
		sortBy: models.SortByDate,
		pages:  newPager(),
	}
}

func (v *PurchaseHistoryView) Title() string { return "Purchase History" }

func (v *PurchaseHistoryView) Load(ctx context.Context) error {
	page, sortBy := v.pages.page, v.sortBy
	err := v.res.Load(ctx, func(ctx context.Context) (models.PurchasePage, error) {
		return v.api.PurchaseHistory(ctx, page, PurchasesPerPage, sortBy)
	})
	if cur, ok := v.res.Get(); ok {
		v.pages.total = cur.TotalPages
	}
	return err
}

func (v *PurchaseHistoryView) SetSort(ctx context.Context, sortBy string) error {
	if !slices.Contains(models.PurchaseSorts, sortBy) {
		return fmt.Errorf("%w: sort is one of %v", ErrUsage, models.PurchaseSorts)
	}
	v.sortBy = sortBy
	v.pages = newPager()
	return v.Load(ctx)
}

func (v *PurchaseHistoryView) Render(w io.Writer) {
	heading(w, v.Title())
	fmt.Fprintf(w, "sorted by %s\n", v.sortBy)
	cur, ok := v.res.Get()
	if !ok {
		empty(w, "loading purchases...")
		return
	}
	if len(cur.Purchases) == 0 {
		empty(w, "No purchases made yet.")
		return
	}
	for _, p := range cur.Purchases {
		fmt.Fprintf(w, "Order %d  %s  %d items  %s  %s\n", p.OrderID, format.Currency(p.TotalAmount.Float()),
			p.NumberOfItems, fulfillment(p.FulfillmentStatus), format.Muted(p.PurchaseDate))
	}
	fmt.Fprintln(w, format.Muted(v.pages.String()))
}

func fulfillment(done bool) string {
	if done {
		return format.Success("Completed")
	}
	return format.Alert("Pending")
}

var historyCommands = append(slices.Clone(pagingCommands),
	Command{Name: "sort", Args: "<key>", Help: "sort by date_time, total_amount or number_of_items"},
	Command{Name: "open", Args: "<order id>", Help: "show the items of an order"},
)

func (v *PurchaseHistoryView) Commands() []Command { return historyCommands }

func (v *PurchaseHistoryView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	if handled, moved, err := turn(&v.pages, name, args); handled {
		if err != nil || !moved {
			return Outcome{}, err
		}
		return Outcome{}, v.Load(ctx)
	}
	switch name {
	case "sort":
		if len(args) != 1 {
			return Outcome{}, usage(historyCommands[3])
		}
		return Outcome{}, v.SetSort(ctx, args[0])
	case "open":
		id, ok := intArg(args, 0)
		if !ok {
			return Outcome{}, usage(historyCommands[4])
		}
		return Outcome{Navigate: OrderPath(id)}, nil
	}
	return Outcome{}, ErrUnknownCommand
}

func OrderPath(id int) string { return "/order/" + strconv.Itoa(id) }

// OrderView shows the lines of one past purchase.
type OrderView struct {
	api HistoryAPI
	id  int
	res *Resource[models.OrderItems]
}

func NewOrderView(api HistoryAPI, stale StaleRecorder, purchaseID int) *OrderView {
	return &OrderView{api: api, id: purchaseID, res: NewResource[models.OrderItems]("order", stale)}
}

func (v *OrderView) Title() string { return fmt.Sprintf("Order %d", v.id) }

func (v *OrderView) Load(ctx context.Context) error {
	return v.res.Load(ctx, func(ctx context.Context) (models.OrderItems, error) {
		return v.api.OrderItems(ctx, v.id)
	})
}

func (v *OrderView) Render(w io.Writer) {
	heading(w, v.Title())
	cur, ok := v.res.Get()
	if !ok {
		empty(w, "loading order...")
		return
	}
	if len(cur.Items) == 0 {
		empty(w, "This order has no items.")
		return
	}
	first := cur.Items[0]
	fmt.Fprintf(w, "Placed %s  Grand total %s  %s\n", first.PurchaseDate,
		format.Currency(cur.GrandTotal()), fulfillment(first.FulfillmentStatus))
	for i, it := range cur.Items {
		status := format.Muted("to be fulfilled")
		if it.FulfillmentTime != "" {
			status = format.Success("fulfilled on " + it.FulfillmentTime)
		}
		fmt.Fprintf(w, "%2d. %s x %d @ %s  sold by %s  %s\n", i+1, format.Plain(it.ProductName), it.Quantity,
			format.Currency(it.PriceAtPurchase.Float()), format.Plain(it.SellerName), status)
	}
}

var orderCommands = []Command{
	{Name: "product", Args: "<n>", Help: "open the product of line n"},
	{Name: "seller", Args: "<n>", Help: "open the seller of line n"},
}

func (v *OrderView) Commands() []Command { return orderCommands }

func (v *OrderView) Handle(_ context.Context, name string, args []string) (Outcome, error) {
	cur, _ := v.res.Get()
	switch name {
	case "product", "seller":
		i, ok := index(args, 0, len(cur.Items))
		if !ok {
			if name == "product" {
				return Outcome{}, usage(orderCommands[0])
			}
			return Outcome{}, usage(orderCommands[1])
		}
		if name == "product" {
			return Outcome{Navigate: ProductPath(cur.Items[i].ProductName)}, nil
		}
		return Outcome{Navigate: UserPath(cur.Items[i].SellerID)}, nil
	}
	return Outcome{}, ErrUnknownCommand
}
