package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/client/nav"
	"github.com/dmitrijs2005/zamazon/internal/client/session"
	"github.com/dmitrijs2005/zamazon/internal/client/views"
)

const (
	public    = false
	protected = true
)

func (a *App) routes() *nav.Router {
	r := nav.NewRouter(a.guard)

	r.Handle("/", public, func(nav.Params) (views.Page, error) {
		return a.products(models.Categories[0]), nil
	})
	r.Handle("/products/:category", public, func(p nav.Params) (views.Page, error) {
		c := p["category"]
		if !slices.Contains(models.Categories, c) {
			return nil, fmt.Errorf("%w: unknown category %q", nav.ErrNoRoute, c)
		}
		return a.products(c), nil
	})
	r.Handle("/product/:name", public, func(p nav.Params) (views.Page, error) {
		return views.NewProductView(a.api, a.session, a.metrics, p["name"]), nil
	})
	r.Handle("/users", public, func(nav.Params) (views.Page, error) {
		return views.NewUserSearchView(a.api, a.metrics), nil
	})
	r.Handle("/user/:id", public, func(p nav.Params) (views.Page, error) {
		id, err := idParam(p)
		if err != nil {
			return nil, err
		}
		return views.NewUserView(a.api, a.session, a.metrics, id), nil
	})
	r.Handle(session.LoginPath, public, func(nav.Params) (views.Page, error) {
		return &loginPage{auth: a.auth, in: a}, nil
	})
	r.Handle("/register", public, func(nav.Params) (views.Page, error) {
		return &registerPage{auth: a.auth, in: a}, nil
	})

	r.Handle("/cart", protected, func(nav.Params) (views.Page, error) {
		return views.NewCartView(a.api, a.metrics), nil
	})
	r.Handle("/account", protected, func(nav.Params) (views.Page, error) {
		return views.NewProfileView(a.api, a.metrics), nil
	})
	r.Handle("/account/"+views.TabHistory, protected, func(nav.Params) (views.Page, error) {
		return views.NewPurchaseHistoryView(a.api, a.metrics), nil
	})
	r.Handle("/account/"+views.TabSocial, protected, func(nav.Params) (views.Page, error) {
		return views.NewSocialView(a.api, a.metrics), nil
	})
	r.Handle("/account/"+views.TabInventory, protected, func(nav.Params) (views.Page, error) {
		return views.NewInventoryView(a.api, a.metrics), nil
	})
	r.Handle("/account/"+views.TabUnfulfilled, protected, func(nav.Params) (views.Page, error) {
		return views.NewOrdersView(a.api, a.metrics, false), nil
	})
	r.Handle("/account/"+views.TabFulfilled, protected, func(nav.Params) (views.Page, error) {
		return views.NewOrdersView(a.api, a.metrics, true), nil
	})
	r.Handle("/account/"+views.TabBecomeSeller, protected, func(nav.Params) (views.Page, error) {
		return views.NewAddProductView(a.api, "Become a Seller"), nil
	})
	r.Handle(views.AddProductPath, protected, func(nav.Params) (views.Page, error) {
		return views.NewAddProductView(a.api, "Add Product"), nil
	})
	r.Handle("/account/update-product/:name", protected, func(p nav.Params) (views.Page, error) {
		return views.NewUpdateProductView(a.api, p["name"]), nil
	})
	r.Handle("/order/:id", protected, func(p nav.Params) (views.Page, error) {
		id, err := idParam(p)
		if err != nil {
			return nil, err
		}
		return views.NewOrderView(a.api, a.metrics, id), nil
	})

	return r
}

func (a *App) products(category string) views.Page {
	a.category = category
	return views.NewProductsView(a.api, a.metrics, category)
}

func idParam(p nav.Params) (int, error) {
	id, err := strconv.Atoi(p["id"])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id %q", nav.ErrNoRoute, p["id"])
	}
	return id, nil
}
