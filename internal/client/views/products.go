package views

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"slices"

	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

// listNameWidth caps product names in listings; the product page shows the
// full name.
const listNameWidth = 48

// ProductsView is the catalog listing shown on the home page and under each
// category. Changing category, filter or search goes back to page one.
type ProductsView struct {
	api CatalogAPI
	res *Resource[models.ProductPage]

	category string
	filter   string
	search   string
	pages    pager
}

func NewProductsView(api CatalogAPI, stale StaleRecorder, category string) *ProductsView {
	if category == "" {
		category = models.Categories[0]
	}
	return &ProductsView{
		api:      api,
		res:      NewResource[models.ProductPage]("products", stale),
		category: category,
		filter:   models.FilterNone,
		pages:    newPager(),
	}
}

func (v *ProductsView) Title() string { return "Products: " + v.category }

func (v *ProductsView) Load(ctx context.Context) error {
	q := models.ProductQuery{Category: v.category, Page: v.pages.page, Filter: v.filter, Search: v.search}
	err := v.res.Load(ctx, func(ctx context.Context) (models.ProductPage, error) {
		return v.api.Products(ctx, q)
	})
	if page, ok := v.res.Get(); ok {
		v.pages.total = page.TotalPages
	}
	return err
}

func (v *ProductsView) SetCategory(ctx context.Context, category string) error {
	if !slices.Contains(models.Categories, category) {
		return fmt.Errorf("%w: category is one of %v", ErrUsage, models.Categories)
	}
	v.category = category
	v.pages = newPager()
	return v.Load(ctx)
}

func (v *ProductsView) SetFilter(ctx context.Context, filter string) error {
	if !slices.Contains(models.Filters, filter) {
		return fmt.Errorf("%w: filter is one of %v", ErrUsage, models.Filters)
	}
	v.filter = filter
	v.pages = newPager()
	return v.Load(ctx)
}

func (v *ProductsView) SetSearch(ctx context.Context, search string) error {
	v.search = search
	v.pages = newPager()
	return v.Load(ctx)
}

func (v *ProductsView) SetPage(ctx context.Context, page int) error {
	if !v.pages.to(page) {
		return nil
	}
	return v.Load(ctx)
}

func (v *ProductsView) Page() int { return v.pages.page }

func (v *ProductsView) Render(w io.Writer) {
	heading(w, v.Title())
	fmt.Fprintf(w, "filter: %s", v.filter)
	if v.search != "" {
		fmt.Fprintf(w, "  search: %q", v.search)
	}
	fmt.Fprintln(w)

	page, ok := v.res.Get()
	if !ok {
		empty(w, "loading products...")
		return
	}
	if len(page.Products) == 0 {
		empty(w, "No products found.")
		return
	}

	for i, p := range page.Products {
		rating := models.Float(p.AvgRating)
		fmt.Fprintf(w, "%2d. %s  %s\n", i+1, format.Truncate(format.Plain(p.ProductName), listNameWidth), format.Currency(p.MinPrice.Float()))
		fmt.Fprintf(w, "    %s (%d reviews)  %d purchased\n",
			format.Rating(format.Stars(rating)), p.TotalReviews, p.TotalPurchases)
	}
	fmt.Fprintln(w, format.Muted(v.pages.String()))
}

var productsCommands = append(slices.Clone(pagingCommands),
	Command{Name: "filter", Args: "<name>", Help: "sort by None, price_low_high, price_high_low, avg_rating or total_purchases"},
	Command{Name: "search", Args: "[text]", Help: "search by name; no text clears the search"},
	Command{Name: "open", Args: "<n>", Help: "open product n"},
)

func (v *ProductsView) Commands() []Command { return productsCommands }

func (v *ProductsView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	if handled, moved, err := turn(&v.pages, name, args); handled {
		if err != nil || !moved {
			return Outcome{}, err
		}
		return Outcome{}, v.Load(ctx)
	}

	switch name {
	case "filter":
		if len(args) != 1 {
			return Outcome{}, usage(productsCommands[3])
		}
		return Outcome{}, v.SetFilter(ctx, args[0])
	case "search":
		return Outcome{}, v.SetSearch(ctx, restArg(args, 0))
	case "open":
		page, _ := v.res.Get()
		i, ok := index(args, 0, len(page.Products))
		if !ok {
			return Outcome{}, usage(productsCommands[5])
		}
		return Outcome{Navigate: ProductPath(page.Products[i].ProductName)}, nil
	}
	return Outcome{}, ErrUnknownCommand
}

func ProductPath(name string) string { return "/product/" + escape(name) }

func escape(s string) string { return url.PathEscape(s) }
