package views

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

// authoredReviews is the two paged lists of reviews one user wrote: about
// products and about sellers. The two cursors move independently.
type authoredReviews struct {
	res     *Resource[models.ReviewsByAuthor]
	perPage int
	fetch   func(ctx context.Context, productPage, sellerPage, perPage int) (models.ReviewsByAuthor, error)

	products pager
	sellers  pager
}

func newAuthoredReviews(name string, stale StaleRecorder, perPage int,
	fetch func(ctx context.Context, productPage, sellerPage, perPage int) (models.ReviewsByAuthor, error),
) *authoredReviews {
	return &authoredReviews{
		res:      NewResource[models.ReviewsByAuthor](name, stale),
		perPage:  perPage,
		fetch:    fetch,
		products: newPager(),
		sellers:  newPager(),
	}
}

func (a *authoredReviews) Load(ctx context.Context) error {
	pp, sp := a.products.page, a.sellers.page
	err := a.res.Load(ctx, func(ctx context.Context) (models.ReviewsByAuthor, error) {
		return a.fetch(ctx, pp, sp, a.perPage)
	})
	if cur, ok := a.res.Get(); ok {
		a.products.total = cur.ProductTotalPages
		a.sellers.total = cur.SellerTotalPages
	}
	return err
}

// cursor returns the pager for a section name typed by the user.
func (a *authoredReviews) cursor(section string) *pager {
	switch section {
	case "product-reviews":
		return &a.products
	case "seller-reviews":
		return &a.sellers
	}
	return nil
}

// productReview returns product review i (0-based) of the current page.
func (a *authoredReviews) productReview(i int) (models.ProductReview, error) {
	cur, _ := a.res.Get()
	if i < 0 || i >= len(cur.ProductReviews) {
		return models.ProductReview{}, fmt.Errorf("%w: no product review %d", ErrUsage, i+1)
	}
	return cur.ProductReviews[i], nil
}

func (a *authoredReviews) sellerReview(i int) (models.SellerReview, error) {
	cur, _ := a.res.Get()
	if i < 0 || i >= len(cur.SellerReviews) {
		return models.SellerReview{}, fmt.Errorf("%w: no seller review %d", ErrUsage, i+1)
	}
	return cur.SellerReviews[i], nil
}

func (a *authoredReviews) Render(w io.Writer) {
	cur, ok := a.res.Get()
	if !ok {
		return
	}

	fmt.Fprintln(w, format.Heading("Product reviews"))
	if len(cur.ProductReviews) == 0 {
		empty(w, "No product reviews.")
	}
	for i, r := range cur.ProductReviews {
		fmt.Fprintf(w, "%2d. %s %s  %s\n", i+1, format.Plain(r.ProductName),
			format.Rating(format.Stars(float64(r.Rating))), format.Muted(r.DateTime))
		if c := format.Plain(r.Comment); c != "" {
			fmt.Fprintf(w, "    %s\n", c)
		}
	}
	if len(cur.ProductReviews) > 0 {
		fmt.Fprintln(w, format.Muted(a.products.String()))
	}

	fmt.Fprintln(w, format.Heading("Seller reviews"))
	if len(cur.SellerReviews) == 0 {
		empty(w, "No seller reviews.")
	}
	for i, r := range cur.SellerReviews {
		fmt.Fprintf(w, "%2d. %s %s %s  %s\n", i+1, format.Plain(r.SellerFirstname), format.Plain(r.SellerLastname),
			format.Rating(format.Stars(float64(r.Rating))), format.Muted(r.DateTime))
		if c := format.Plain(r.Comment); c != "" {
			fmt.Fprintf(w, "    %s\n", c)
		}
	}
	if len(cur.SellerReviews) > 0 {
		fmt.Fprintln(w, format.Muted(a.sellers.String()))
	}
}
