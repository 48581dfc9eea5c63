package views

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/client/session"
)

// UserSearchView looks a user up by id.
type UserSearchView struct {
	api UserAPI
	res *Resource[models.UserSummary]
}

func NewUserSearchView(api UserAPI, stale StaleRecorder) *UserSearchView {
	return &UserSearchView{api: api, res: NewResource[models.UserSummary]("user_search", stale)}
}

func (v *UserSearchView) Title() string { return "Find a user" }

func (v *UserSearchView) Load(context.Context) error { return nil }

func (v *UserSearchView) Search(ctx context.Context, id int) error {
	return v.res.Load(ctx, func(ctx context.Context) (models.UserSummary, error) {
		return v.api.SearchUser(ctx, id)
	})
}

func (v *UserSearchView) Render(w io.Writer) {
	heading(w, v.Title())
	u, ok := v.res.Get()
	if !ok {
		empty(w, "Use: find <user id>")
		return
	}
	fmt.Fprintf(w, "%d  %s\n", u.UserID, format.Plain(u.Name))
}

var userSearchCommands = []Command{
	{Name: "find", Args: "<user id>", Help: "look up a user"},
	{Name: "open", Help: "open the user found last"},
}

func (v *UserSearchView) Commands() []Command { return userSearchCommands }

func (v *UserSearchView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	switch name {
	case "find":
		id, ok := intArg(args, 0)
		if !ok {
			return Outcome{}, usage(userSearchCommands[0])
		}
		return Outcome{}, v.Search(ctx, id)
	case "open":
		u, ok := v.res.Get()
		if !ok {
			return Outcome{}, usage(userSearchCommands[0])
		}
		return Outcome{Navigate: UserPath(u.UserID)}, nil
	}
	return Outcome{}, ErrUnknownCommand
}

const (
	SellerReviewsPerPage  = 3
	SellerProductsPerPage = 2
	UserReviewsPerPage    = 5
)

type sellerReviews struct {
	page    models.SellerReviewPage
	upvoted map[int]bool
}

// UserView is a user's public page. Sellers also show their rating, the
// reviews they received and what they sell.
type UserView struct {
	api     UserAPI
	session session.Reader
	id      int

	user     *Resource[models.PublicUser]
	seller   *Resource[bool]
	summary  *Resource[models.RatingSummary]
	reviews  *Resource[sellerReviews]
	products *Resource[models.SellerProductPage]
	authored *authoredReviews
	mine     *MySellerReview

	reviewPages  pager
	productPages pager
}

func NewUserView(api UserAPI, sess session.Reader, stale StaleRecorder, id int) *UserView {
	return &UserView{
		api:      api,
		session:  sess,
		id:       id,
		user:     NewResource[models.PublicUser]("user", stale),
		seller:   NewResource[bool]("user_seller_status", stale),
		summary:  NewResource[models.RatingSummary]("seller_rating_summary", stale),
		reviews:  NewResource[sellerReviews]("seller_reviews", stale),
		products: NewResource[models.SellerProductPage]("seller_products", stale),
		authored: newAuthoredReviews("user_reviews", stale, UserReviewsPerPage,
			func(ctx context.Context, pp, sp, per int) (models.ReviewsByAuthor, error) {
				return api.UserReviews(ctx, id, pp, sp, per)
			}),
		mine:         NewMySellerReview(api, stale, id),
		reviewPages:  newPager(),
		productPages: newPager(),
	}
}

func (v *UserView) Title() string { return fmt.Sprintf("User %d", v.id) }

func (v *UserView) isSeller() bool {
	s, _ := v.seller.Get()
	return s
}

func (v *UserView) Load(ctx context.Context) error {
	if err := v.user.Load(ctx, func(ctx context.Context) (models.PublicUser, error) {
		return v.api.User(ctx, v.id)
	}); err != nil {
		return err
	}
	if err := v.seller.Load(ctx, func(ctx context.Context) (bool, error) {
		return v.api.UserIsSeller(ctx, v.id)
	}); err != nil {
		return err
	}

	if v.isSeller() {
		if err := v.summary.Load(ctx, func(ctx context.Context) (models.RatingSummary, error) {
			return v.api.SellerRatingSummary(ctx, v.id)
		}); err != nil {
			return err
		}
		if err := v.loadReviews(ctx); err != nil {
			return err
		}
		if err := v.loadProducts(ctx); err != nil {
			return err
		}
		if v.session.Read() {
			if err := v.mine.Load(ctx); err != nil {
				return err
			}
		}
	}
	return v.authored.Load(ctx)
}

func (v *UserView) loadReviews(ctx context.Context) error {
	page := v.reviewPages.page
	signedIn := v.session.Read()
	err := v.reviews.Load(ctx, func(ctx context.Context) (sellerReviews, error) {
		p, err := v.api.SellerReviews(ctx, v.id, page, SellerReviewsPerPage)
		if err != nil {
			return sellerReviews{}, err
		}
		out := sellerReviews{page: p, upvoted: map[int]bool{}}
		if !signedIn {
			return out, nil
		}
		for _, r := range p.SellerReviews {
			on, err := v.api.SellerReviewUpvoted(ctx, v.id, r.BuyerID)
			if err != nil {
				return sellerReviews{}, err
			}
			out.upvoted[r.BuyerID] = on
		}
		return out, nil
	})
	if cur, ok := v.reviews.Get(); ok {
		v.reviewPages.total = cur.page.TotalPages
	}
	return err
}

func (v *UserView) loadProducts(ctx context.Context) error {
	page := v.productPages.page
	err := v.products.Load(ctx, func(ctx context.Context) (models.SellerProductPage, error) {
		return v.api.SellerProducts(ctx, v.id, page, SellerProductsPerPage)
	})
	if cur, ok := v.products.Get(); ok {
		v.productPages.total = format.TotalPages(cur.TotalCount, SellerProductsPerPage)
	}
	return err
}

func (v *UserView) ToggleUpvote(ctx context.Context, i int) error {
	if !v.session.Read() {
		return ErrLoginRequired
	}
	cur, _ := v.reviews.Get()
	if i < 0 || i >= len(cur.page.SellerReviews) {
		return fmt.Errorf("%w: no review %d", ErrUsage, i+1)
	}
	buyer := cur.page.SellerReviews[i].BuyerID

	on, err := v.api.SellerReviewUpvoted(ctx, v.id, buyer)
	if err != nil {
		return err
	}
	if err := v.api.SetSellerReviewUpvote(ctx, v.id, buyer, !on); err != nil {
		return err
	}
	return v.loadReviews(ctx)
}

func (v *UserView) Render(w io.Writer) {
	u, ok := v.user.Get()
	if !ok {
		empty(w, "loading user...")
		return
	}
	heading(w, format.Plain(u.FullName()))
	fmt.Fprintf(w, "User ID: %d\n", u.UserID)

	if v.isSeller() {
		fmt.Fprintln(w, format.Success("Seller"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, format.Heading("Seller rating"))
		if s, ok := v.summary.Get(); ok {
			renderSummary(w, s)
		}

		fmt.Fprintln(w, format.Heading("Reviews received"))
		revs, _ := v.reviews.Get()
		if len(revs.page.SellerReviews) == 0 {
			empty(w, "No reviews yet.")
		} else {
			for i, r := range revs.page.SellerReviews {
				renderSellerReview(w, i+1, r, revs.upvoted[r.BuyerID])
			}
			fmt.Fprintln(w, format.Muted(v.reviewPages.String()))
		}

		fmt.Fprintln(w, format.Heading("Products"))
		prods, _ := v.products.Get()
		if len(prods.Products) == 0 {
			empty(w, "No products listed.")
		} else {
			for i, p := range prods.Products {
				fmt.Fprintf(w, "%2d. %s  %s  %d in stock\n", i+1, format.Plain(p.ProductName),
					format.Currency(p.Price.Float()), p.Quantity)
			}
			fmt.Fprintln(w, format.Muted(v.productPages.String()))
		}

		if v.session.Read() {
			v.mine.Render(w)
		} else {
			empty(w, "Please login to review this seller.")
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, format.Heading("Reviews written"))
	v.authored.Render(w)
}

var userCommands = []Command{
	{Name: "next", Args: "<reviews|products|product-reviews|seller-reviews>", Help: "next page of a list"},
	{Name: "prev", Args: "<reviews|products|product-reviews|seller-reviews>", Help: "previous page of a list"},
	{Name: "upvote", Args: "<n>", Help: "toggle your upvote on received review n"},
	{Name: "product", Args: "<n>", Help: "open product n"},
	{Name: "review", Args: "<1-5> [comment]", Help: "write or edit your review of this seller"},
	{Name: "unreview", Help: "delete your review of this seller"},
}

func (v *UserView) Commands() []Command {
	if v.isSeller() {
		return userCommands
	}
	return userCommands[:2]
}

func (v *UserView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	switch name {
	case "next", "prev":
		if len(args) != 1 {
			return Outcome{}, usage(userCommands[0])
		}
		step := 1
		if name == "prev" {
			step = -1
		}
		switch args[0] {
		case "reviews":
			if v.reviewPages.to(v.reviewPages.page + step) {
				return Outcome{}, v.loadReviews(ctx)
			}
		case "products":
			if v.productPages.to(v.productPages.page + step) {
				return Outcome{}, v.loadProducts(ctx)
			}
		default:
			p := v.authored.cursor(args[0])
			if p == nil {
				return Outcome{}, usage(userCommands[0])
			}
			if p.to(p.page + step) {
				return Outcome{}, v.authored.Load(ctx)
			}
		}
		return Outcome{}, nil
	}

	if !v.isSeller() {
		return Outcome{}, ErrUnknownCommand
	}

	switch name {
	case "upvote":
		i, ok := intArg(args, 0)
		if !ok {
			return Outcome{}, usage(userCommands[2])
		}
		return Outcome{}, v.ToggleUpvote(ctx, i-1)
	case "product":
		prods, _ := v.products.Get()
		i, ok := index(args, 0, len(prods.Products))
		if !ok {
			return Outcome{}, usage(userCommands[3])
		}
		return Outcome{Navigate: ProductPath(prods.Products[i].ProductName)}, nil
	case "review", "unreview":
		if !v.session.Read() {
			return Outcome{}, ErrLoginRequired
		}
		if name == "unreview" {
			if err := v.mine.Delete(ctx); err != nil {
				return Outcome{}, err
			}
			return Outcome{Notice: "Review deleted."}, v.reloadRating(ctx)
		}
		form, ok := parseReview(args)
		if !ok {
			return Outcome{}, usage(userCommands[4])
		}
		if err := v.mine.Save(ctx, form); err != nil {
			return Outcome{}, err
		}
		return Outcome{Notice: "Review saved."}, v.reloadRating(ctx)
	}
	return Outcome{}, ErrUnknownCommand
}

func (v *UserView) reloadRating(ctx context.Context) error {
	if err := v.summary.Load(ctx, func(ctx context.Context) (models.RatingSummary, error) {
		return v.api.SellerRatingSummary(ctx, v.id)
	}); err != nil {
		return err
	}
	return v.loadReviews(ctx)
}
