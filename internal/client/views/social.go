package views

import (
	"context"
	"io"
)

const SocialPerPage = 2

// SocialView is the account's social center: every review the user wrote.
type SocialView struct {
	api     SocialAPI
	reviews *authoredReviews
}

func NewSocialView(api SocialAPI, stale StaleRecorder) *SocialView {
	return &SocialView{
		api:     api,
		reviews: newAuthoredReviews("my_reviews", stale, SocialPerPage, api.MyReviews),
	}
}

func (v *SocialView) Title() string { return "Social Center" }

func (v *SocialView) Load(ctx context.Context) error { return v.reviews.Load(ctx) }

func (v *SocialView) DeleteProductReview(ctx context.Context, i int) error {
	r, err := v.reviews.productReview(i)
	if err != nil {
		return err
	}
	if err := v.api.DeleteProductReview(ctx, r.ProductName); err != nil {
		return err
	}
	return v.reviews.Load(ctx)
}

func (v *SocialView) DeleteSellerReview(ctx context.Context, i int) error {
	r, err := v.reviews.sellerReview(i)
	if err != nil {
		return err
	}
	if err := v.api.DeleteSellerReview(ctx, r.SellerID); err != nil {
		return err
	}
	return v.reviews.Load(ctx)
}

func (v *SocialView) Render(w io.Writer) {
	heading(w, v.Title())
	if _, ok := v.reviews.res.Get(); !ok {
		empty(w, "loading reviews...")
		return
	}
	v.reviews.Render(w)
}

var socialCommands = []Command{
	{Name: "next", Args: "<product-reviews|seller-reviews>", Help: "next page of a list"},
	{Name: "prev", Args: "<product-reviews|seller-reviews>", Help: "previous page of a list"},
	{Name: "rm-product", Args: "<n>", Help: "delete product review n"},
	{Name: "rm-seller", Args: "<n>", Help: "delete seller review n"},
	{Name: "edit-product", Args: "<n>", Help: "open the product of review n to edit it"},
	{Name: "edit-seller", Args: "<n>", Help: "open the seller of review n to edit it"},
}

func (v *SocialView) Commands() []Command { return socialCommands }

func (v *SocialView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	switch name {
	case "next", "prev":
		var p *pager
		if len(args) == 1 {
			p = v.reviews.cursor(args[0])
		}
		if p == nil {
			return Outcome{}, usage(socialCommands[0])
		}
		step := 1
		if name == "prev" {
			step = -1
		}
		if !p.to(p.page + step) {
			return Outcome{}, nil
		}
		return Outcome{}, v.reviews.Load(ctx)
	case "rm-product", "rm-seller", "edit-product", "edit-seller":
		i, ok := intArg(args, 0)
		if !ok {
			return Outcome{}, usage(Command{Name: name, Args: "<n>"})
		}
		switch name {
		case "rm-product":
			return Outcome{Notice: "Review deleted."}, v.DeleteProductReview(ctx, i-1)
		case "rm-seller":
			return Outcome{Notice: "Review deleted."}, v.DeleteSellerReview(ctx, i-1)
		case "edit-product":
			r, err := v.reviews.productReview(i - 1)
			if err != nil {
				return Outcome{}, err
			}
			return Outcome{Navigate: ProductPath(r.ProductName)}, nil
		default:
			r, err := v.reviews.sellerReview(i - 1)
			if err != nil {
				return Outcome{}, err
			}
			return Outcome{Navigate: UserPath(r.SellerID)}, nil
		}
	}
	return Outcome{}, ErrUnknownCommand
}
