package views

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

const CartItemsPerPage = 5

type CartView struct {
	api   CartAPI
	res   *Resource[models.CartPage]
	pages pager
}

func NewCartView(api CartAPI, stale StaleRecorder) *CartView {
	return &CartView{api: api, res: NewResource[models.CartPage]("cart", stale), pages: newPager()}
}

func (v *CartView) Title() string { return "Cart" }

func (v *CartView) Load(ctx context.Context) error {
	page := v.pages.page
	err := v.res.Load(ctx, func(ctx context.Context) (models.CartPage, error) {
		return v.api.Cart(ctx, page, CartItemsPerPage)
	})
	if cur, ok := v.res.Get(); ok {
		v.pages.total = cur.TotalPages
	}
	return err
}

func (v *CartView) Page() int { return v.pages.page }

func (v *CartView) SetPage(ctx context.Context, page int) error {
	if !v.pages.to(page) {
		return nil
	}
	return v.Load(ctx)
}

func (v *CartView) item(i int) (models.CartItem, error) {
	cur, _ := v.res.Get()
	if i < 0 || i >= len(cur.Items) {
		return models.CartItem{}, fmt.Errorf("%w: no item %d on this page", ErrUsage, i+1)
	}
	return cur.Items[i], nil
}

func (v *CartView) Increase(ctx context.Context, i int) error {
	it, err := v.item(i)
	if err != nil {
		return err
	}
	if err := v.api.AddToCart(ctx, it.ProductID); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *CartView) Decrease(ctx context.Context, i int) error {
	it, err := v.item(i)
	if err != nil {
		return err
	}
	if err := v.api.DecreaseQuantity(ctx, it.ProductID); err != nil {
		return err
	}
	return v.Load(ctx)
}

// Remove deletes item i. Removing the last item of a page other than the
// first steps back one page.
func (v *CartView) Remove(ctx context.Context, i int) error {
	it, err := v.item(i)
	if err != nil {
		return err
	}
	if err := v.api.RemoveFromCart(ctx, it.ProductID); err != nil {
		return err
	}
	cur, _ := v.res.Get()
	if len(cur.Items) == 1 && v.pages.page > 1 {
		v.pages.page--
	}
	return v.Load(ctx)
}

func (v *CartView) Clear(ctx context.Context) error {
	if err := v.api.ClearCart(ctx); err != nil {
		return err
	}
	v.pages = newPager()
	return v.Load(ctx)
}

func (v *CartView) PlaceOrder(ctx context.Context) (models.OrderReceipt, error) {
	receipt, err := v.api.PlaceOrder(ctx)
	if err != nil {
		return models.OrderReceipt{}, err
	}
	v.pages = newPager()
	return receipt, v.Load(ctx)
}

func (v *CartView) Render(w io.Writer) {
	heading(w, "Cart")
	cur, ok := v.res.Get()
	if !ok {
		empty(w, "loading cart...")
		return
	}
	if len(cur.Items) == 0 {
		msg := cur.Message
		if msg == "" {
			msg = "Your cart is empty"
		}
		empty(w, msg)
		return
	}
	for i, it := range cur.Items {
		fmt.Fprintf(w, "%2d. %s  %s x %d\n", i+1, format.Plain(it.ProductName), format.Currency(it.Price.Float()), it.Quantity)
	}
	fmt.Fprintln(w, format.Muted(v.pages.String()))
	fmt.Fprintf(w, "Total: %s\n", format.Currency(cur.TotalPrice.Float()))
}

var cartCommands = append(slices.Clone(pagingCommands),
	Command{Name: "inc", Args: "<n>", Help: "add one more of item n"},
	Command{Name: "dec", Args: "<n>", Help: "remove one of item n"},
	Command{Name: "rm", Args: "<n>", Help: "remove item n"},
	Command{Name: "clear", Help: "empty the cart"},
	Command{Name: "order", Help: "place an order for everything in the cart"},
)

func (v *CartView) Commands() []Command { return cartCommands }

func (v *CartView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	if handled, moved, err := turn(&v.pages, name, args); handled {
		if err != nil || !moved {
			return Outcome{}, err
		}
		return Outcome{}, v.Load(ctx)
	}

	itemCmd := func(c Command, fn func(context.Context, int) error) (Outcome, error) {
		i, ok := intArg(args, 0)
		if !ok {
			return Outcome{}, usage(c)
		}
		return Outcome{}, fn(ctx, i-1)
	}

	switch name {
	case "inc":
		return itemCmd(cartCommands[3], v.Increase)
	case "dec":
		return itemCmd(cartCommands[4], v.Decrease)
	case "rm":
		return itemCmd(cartCommands[5], v.Remove)
	case "clear":
		if err := v.Clear(ctx); err != nil {
			return Outcome{}, err
		}
		return Outcome{Notice: "Cart cleared."}, nil
	case "order":
		r, err := v.PlaceOrder(ctx)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Notice: fmt.Sprintf("Order %d placed on %s.", r.PurchaseID, r.DateTime)}, nil
	}
	return Outcome{}, ErrUnknownCommand
}
