package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

// ownReview is the signed-in user's review of something, plus whether they
// may write one at all (at least one fulfilled purchase).
type ownReview[R any] struct {
	eligible bool
	review   *R
}

// MyProductReview lets the signed-in user write, edit or delete their
// review of one product.
type MyProductReview struct {
	api  ProductReviewAPI
	name string
	res  *Resource[ownReview[models.ProductReview]]
}

func NewMyProductReview(api ProductReviewAPI, stale StaleRecorder, name string) *MyProductReview {
	return &MyProductReview{api: api, name: name, res: NewResource[ownReview[models.ProductReview]]("my_product_review", stale)}
}

func (m *MyProductReview) Load(ctx context.Context) error {
	return m.res.Load(ctx, func(ctx context.Context) (ownReview[models.ProductReview], error) {
		n, err := m.api.ProductPurchases(ctx, m.name)
		if err != nil {
			return ownReview[models.ProductReview]{}, err
		}
		r, err := m.api.MyProductReview(ctx, m.name)
		if err != nil {
			return ownReview[models.ProductReview]{}, err
		}
		return ownReview[models.ProductReview]{eligible: n > 0, review: r}, nil
	})
}

// Save creates the review, or replaces it when one exists.
func (m *MyProductReview) Save(ctx context.Context, form models.ReviewForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	cur, _ := m.res.Get()
	if !cur.eligible {
		return ErrNotEligible
	}
	req := models.ProductReviewRequest{ProductName: m.name, Rating: form.Rating, Comment: form.Comment}
	if err := m.api.SaveProductReview(ctx, cur.review != nil, req); err != nil {
		return err
	}
	return m.Load(ctx)
}

func (m *MyProductReview) Delete(ctx context.Context) error {
	if err := m.api.DeleteProductReview(ctx, m.name); err != nil {
		return err
	}
	return m.Load(ctx)
}

func (m *MyProductReview) Render(w io.Writer) {
	cur, ok := m.res.Get()
	if !ok {
		return
	}
	fmt.Fprintln(w, format.Heading("My review"))
	if cur.review == nil {
		renderOwn(w, cur.eligible, 0, "", false)
		return
	}
	renderOwn(w, cur.eligible, cur.review.Rating, cur.review.Comment, true)
}

// MySellerReview is MyProductReview for a seller.
type MySellerReview struct {
	api      SellerReviewAPI
	sellerID int
	res      *Resource[ownReview[models.SellerReview]]
}

func NewMySellerReview(api SellerReviewAPI, stale StaleRecorder, sellerID int) *MySellerReview {
	return &MySellerReview{api: api, sellerID: sellerID, res: NewResource[ownReview[models.SellerReview]]("my_seller_review", stale)}
}

func (m *MySellerReview) Load(ctx context.Context) error {
	return m.res.Load(ctx, func(ctx context.Context) (ownReview[models.SellerReview], error) {
		n, err := m.api.SellerPurchases(ctx, m.sellerID)
		if err != nil {
			return ownReview[models.SellerReview]{}, err
		}
		r, err := m.api.MySellerReview(ctx, m.sellerID)
		if err != nil {
			return ownReview[models.SellerReview]{}, err
		}
		return ownReview[models.SellerReview]{eligible: n > 0, review: r}, nil
	})
}

func (m *MySellerReview) Save(ctx context.Context, form models.ReviewForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	cur, _ := m.res.Get()
	if !cur.eligible {
		return ErrNotEligible
	}
	req := models.SellerReviewRequest{SellerID: m.sellerID, Rating: form.Rating, Comment: form.Comment}
	if err := m.api.SaveSellerReview(ctx, cur.review != nil, req); err != nil {
		return err
	}
	return m.Load(ctx)
}

func (m *MySellerReview) Delete(ctx context.Context) error {
	if err := m.api.DeleteSellerReview(ctx, m.sellerID); err != nil {
		return err
	}
	return m.Load(ctx)
}

func (m *MySellerReview) Render(w io.Writer) {
	cur, ok := m.res.Get()
	if !ok {
		return
	}
	fmt.Fprintln(w, format.Heading("My review"))
	if cur.review == nil {
		renderOwn(w, cur.eligible, 0, "", false)
		return
	}
	renderOwn(w, cur.eligible, cur.review.Rating, cur.review.Comment, true)
}

func renderOwn(w io.Writer, eligible bool, rating int, comment string, has bool) {
	switch {
	case !eligible:
		empty(w, "You have no fulfilled purchase here yet. Come back to write a review later.")
	case !has:
		empty(w, "No review yet. Use: review <1-5> <comment>")
	default:
		fmt.Fprintf(w, "%s %s\n", format.Rating(format.Stars(float64(rating))), format.Plain(comment))
	}
}

// parseReview reads "<rating> <comment...>".
func parseReview(args []string) (models.ReviewForm, bool) {
	r, ok := intArg(args, 0)
	if !ok {
		return models.ReviewForm{}, false
	}
	return models.ReviewForm{Rating: r, Comment: strings.TrimSpace(restArg(args, 1))}, true
}

func renderProductReview(w io.Writer, n int, r models.ProductReview, upvoted bool) {
	mark := ""
	if upvoted {
		mark = " (upvoted)"
	}
	fmt.Fprintf(w, "%2d. %s %s %s  %s\n", n, format.Rating(format.Stars(float64(r.Rating))),
		format.Plain(r.Firstname), format.Plain(r.Lastname), format.Muted(r.DateTime))
	if c := format.Plain(r.Comment); c != "" {
		fmt.Fprintf(w, "    %s\n", c)
	}
	fmt.Fprintf(w, "    %d upvotes%s\n", r.UpvoteCount, mark)
}

func renderSellerReview(w io.Writer, n int, r models.SellerReview, upvoted bool) {
	mark := ""
	if upvoted {
		mark = " (upvoted)"
	}
	fmt.Fprintf(w, "%2d. %s %s %s  %s\n", n, format.Rating(format.Stars(float64(r.Rating))),
		format.Plain(r.Firstname), format.Plain(r.Lastname), format.Muted(r.DateTime))
	if c := format.Plain(r.Comment); c != "" {
		fmt.Fprintf(w, "    %s\n", c)
	}
	fmt.Fprintf(w, "    %d upvotes%s\n", r.UpvoteCount, mark)
}

func renderSummary(w io.Writer, s models.RatingSummary) {
	if s.Count() == 0 {
		empty(w, "No ratings yet.")
		return
	}
	avg := models.Float(s.AverageRating)
	fmt.Fprintf(w, "%s %.1f from %d ratings (lowest %.0f, highest %.0f)\n",
		format.Rating(format.Stars(avg)), avg, s.Count(),
		models.Float(s.LowestRating), models.Float(s.HighestRating))
}
