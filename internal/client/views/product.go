package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/client/session"
)

const productReviewsPerPage = 2

var ErrLoginRequired = errors.New("please login first")

type productReviews struct {
	page    models.ProductReviewPage
	upvoted map[int]bool
}

// ProductView is the detail page of one product: catalog record, seller
// listings, rating summary, paged reviews and the user's own review.
type ProductView struct {
	api     ProductAPI
	session session.Reader
	name    string

	product  *Resource[models.Product]
	listings *Resource[[]models.Listing]
	summary  *Resource[models.RatingSummary]
	reviews  *Resource[productReviews]
	mine     *MyProductReview
	pages    pager
}

func NewProductView(api ProductAPI, sess session.Reader, stale StaleRecorder, name string) *ProductView {
	return &ProductView{
		api:      api,
		session:  sess,
		name:     name,
		product:  NewResource[models.Product]("product", stale),
		listings: NewResource[[]models.Listing]("product_listings", stale),
		summary:  NewResource[models.RatingSummary]("product_rating_summary", stale),
		reviews:  NewResource[productReviews]("product_reviews", stale),
		mine:     NewMyProductReview(api, stale, name),
		pages:    newPager(),
	}
}

func (v *ProductView) Title() string { return v.name }

func (v *ProductView) Load(ctx context.Context) error {
	if err := v.product.Load(ctx, func(ctx context.Context) (models.Product, error) {
		return v.api.Product(ctx, v.name)
	}); err != nil {
		return err
	}
	if err := v.loadListings(ctx); err != nil {
		return err
	}
	if err := v.summary.Load(ctx, func(ctx context.Context) (models.RatingSummary, error) {
		return v.api.ProductRatingSummary(ctx, v.name)
	}); err != nil {
		return err
	}
	if err := v.loadReviews(ctx); err != nil {
		return err
	}
	if v.session.Read() {
		return v.mine.Load(ctx)
	}
	return nil
}

func (v *ProductView) loadListings(ctx context.Context) error {
	return v.listings.Load(ctx, func(ctx context.Context) ([]models.Listing, error) {
		return v.api.Listings(ctx, v.name)
	})
}

func (v *ProductView) loadReviews(ctx context.Context) error {
	page := v.pages.page
	signedIn := v.session.Read()
	err := v.reviews.Load(ctx, func(ctx context.Context) (productReviews, error) {
		p, err := v.api.ProductReviews(ctx, v.name, page, productReviewsPerPage)
		if err != nil {
			return productReviews{}, err
		}
		out := productReviews{page: p, upvoted: map[int]bool{}}
		if !signedIn {
			return out, nil
		}
		for _, r := range p.ProductReviews {
			on, err := v.api.ProductReviewUpvoted(ctx, v.name, r.BuyerID)
			if err != nil {
				return productReviews{}, err
			}
			out.upvoted[r.BuyerID] = on
		}
		return out, nil
	})
	if cur, ok := v.reviews.Get(); ok {
		v.pages.total = cur.page.TotalPages
	}
	return err
}

// AddToCart adds listing i (0-based) to the cart and re-reads the listings.
func (v *ProductView) AddToCart(ctx context.Context, i int) error {
	if !v.session.Read() {
		return ErrLoginRequired
	}
	listings, _ := v.listings.Get()
	if i < 0 || i >= len(listings) {
		return fmt.Errorf("%w: no listing %d", ErrUsage, i+1)
	}
	l := listings[i]
	if l.SoldOut() {
		return fmt.Errorf("%s from %s is sold out", l.ProductName, l.SellerName)
	}
	if err := v.api.AddToCart(ctx, l.ProductID); err != nil {
		return err
	}
	return v.loadListings(ctx)
}

// ToggleUpvote flips the user's upvote on review i of the current page.
func (v *ProductView) ToggleUpvote(ctx context.Context, i int) error {
	if !v.session.Read() {
		return ErrLoginRequired
	}
	cur, _ := v.reviews.Get()
	if i < 0 || i >= len(cur.page.ProductReviews) {
		return fmt.Errorf("%w: no review %d", ErrUsage, i+1)
	}
	buyer := cur.page.ProductReviews[i].BuyerID

	on, err := v.api.ProductReviewUpvoted(ctx, v.name, buyer)
	if err != nil {
		return err
	}
	if err := v.api.SetProductReviewUpvote(ctx, v.name, buyer, !on); err != nil {
		return err
	}
	return v.loadReviews(ctx)
}

func (v *ProductView) Render(w io.Writer) {
	p, ok := v.product.Get()
	if !ok {
		empty(w, "loading product...")
		return
	}
	heading(w, format.Plain(p.ProductName))
	fmt.Fprintf(w, "%s  %s\n", format.Muted(p.Category), format.Rating(format.Stars(models.Float(p.AvgRating))))
	if d := format.Plain(p.Description); d != "" {
		fmt.Fprintln(w, d)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, format.Heading("Sellers"))
	listings, _ := v.listings.Get()
	if len(listings) == 0 {
		empty(w, "No one is selling this product right now.")
	}
	signedIn := v.session.Read()
	for i, l := range listings {
		fmt.Fprintf(w, "%2d. %s  %s", i+1, format.Plain(l.SellerName), format.Currency(l.Price.Float()))
		switch {
		case l.SoldOut():
			fmt.Fprintf(w, "  %s\n", format.Alert("Sold Out"))
		case !signedIn:
			fmt.Fprintf(w, "  %d left  %s\n", l.Quantity, format.Muted("Login to purchase"))
		default:
			fmt.Fprintf(w, "  %d left\n", l.Quantity)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, format.Heading("Ratings"))
	if s, ok := v.summary.Get(); ok {
		renderSummary(w, s)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, format.Heading("Reviews"))
	revs, _ := v.reviews.Get()
	if len(revs.page.ProductReviews) == 0 {
		empty(w, "No reviews yet.")
	} else {
		for i, r := range revs.page.ProductReviews {
			renderProductReview(w, i+1, r, revs.upvoted[r.BuyerID])
		}
		fmt.Fprintln(w, format.Muted(v.pages.String()))
	}

	fmt.Fprintln(w)
	if signedIn {
		v.mine.Render(w)
	} else {
		empty(w, "Please login to view or write reviews for this product.")
	}
}

var productCommands = append(slices.Clone(pagingCommands),
	Command{Name: "buy", Args: "<n>", Help: "add listing n to the cart"},
	Command{Name: "seller", Args: "<n>", Help: "open the seller of listing n"},
	Command{Name: "upvote", Args: "<n>", Help: "toggle your upvote on review n"},
	Command{Name: "review", Args: "<1-5> [comment]", Help: "write or edit your review"},
	Command{Name: "unreview", Help: "delete your review"},
)

func (v *ProductView) Commands() []Command { return productCommands }

func (v *ProductView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	if handled, moved, err := turn(&v.pages, name, args); handled {
		if err != nil || !moved {
			return Outcome{}, err
		}
		return Outcome{}, v.loadReviews(ctx)
	}

	switch name {
	case "buy":
		i, ok := intArg(args, 0)
		if !ok {
			return Outcome{}, usage(productCommands[3])
		}
		if err := v.AddToCart(ctx, i-1); err != nil {
			return Outcome{}, err
		}
		return Outcome{Notice: "Added to cart."}, nil
	case "seller":
		listings, _ := v.listings.Get()
		i, ok := index(args, 0, len(listings))
		if !ok {
			return Outcome{}, usage(productCommands[4])
		}
		return Outcome{Navigate: UserPath(listings[i].SellerID)}, nil
	case "upvote":
		i, ok := intArg(args, 0)
		if !ok {
			return Outcome{}, usage(productCommands[5])
		}
		return Outcome{}, v.ToggleUpvote(ctx, i-1)
	case "review":
		if !v.session.Read() {
			return Outcome{}, ErrLoginRequired
		}
		form, ok := parseReview(args)
		if !ok {
			return Outcome{}, usage(productCommands[6])
		}
		if err := v.mine.Save(ctx, form); err != nil {
			return Outcome{}, err
		}
		return Outcome{Notice: "Review saved."}, v.reloadSocial(ctx)
	case "unreview":
		if !v.session.Read() {
			return Outcome{}, ErrLoginRequired
		}
		if err := v.mine.Delete(ctx); err != nil {
			return Outcome{}, err
		}
		return Outcome{Notice: "Review deleted."}, v.reloadSocial(ctx)
	}
	return Outcome{}, ErrUnknownCommand
}

// reloadSocial re-reads what a review change affects.
func (v *ProductView) reloadSocial(ctx context.Context) error {
	if err := v.summary.Load(ctx, func(ctx context.Context) (models.RatingSummary, error) {
		return v.api.ProductRatingSummary(ctx, v.name)
	}); err != nil {
		return err
	}
	return v.loadReviews(ctx)
}

func UserPath(id int) string { return "/user/" + strconv.Itoa(id) }
