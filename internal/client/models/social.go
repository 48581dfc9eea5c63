package models

import "errors"

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// RatingSummary is shared by products and sellers. All fields are null when
// nothing has been rated yet.
type RatingSummary struct {
	AverageRating *float64 `json:"average_rating"`
	LowestRating  *float64 `json:"lowest_rating"`
	HighestRating *float64 `json:"highest_rating"`
	TotalRatings  *int     `json:"total_ratings"`
}

func (r RatingSummary) Validate() error {
	if r.AverageRating != nil && (*r.AverageRating < 0 || *r.AverageRating > 5) {
		return schemaErr("average_rating %v out of range", *r.AverageRating)
	}
	return nil
}

func (r RatingSummary) Count() int {
	if r.TotalRatings == nil {
		return 0
	}
	return *r.TotalRatings
}

type ProductReview struct {
	ProductName string `json:"product_name"`
	BuyerID     int    `json:"buyer_id"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	DateTime    string `json:"date_time"`
	UpvoteCount int    `json:"upvote_count"`
}

func (r ProductReview) Validate() error {
	return validRating(r.Rating)
}

type SellerReview struct {
	SellerID        int    `json:"seller_id"`
	BuyerID         int    `json:"buyer_id"`
	Firstname       string `json:"firstname"`
	Lastname        string `json:"lastname"`
	SellerFirstname string `json:"seller_firstname"`
	SellerLastname  string `json:"seller_lastname"`
	Rating          int    `json:"rating"`
	Comment         string `json:"comment"`
	DateTime        string `json:"date_time"`
	UpvoteCount     int    `json:"upvote_count"`
}

func (r SellerReview) Validate() error {
	return validRating(r.Rating)
}

func validRating(r int) error {
	if r < 1 || r > 5 {
		return schemaErr("rating %d out of range", r)
	}
	return nil
}

type ProductReviewPage struct {
	ProductReviews []ProductReview `json:"product_reviews"`
	TotalPages     int             `json:"total_pages"`
}

func (p ProductReviewPage) Validate() error {
	if err := nonNegative("total_pages", p.TotalPages); err != nil {
		return err
	}
	return validateEach("product_reviews", p.ProductReviews)
}

type SellerReviewPage struct {
	SellerReviews []SellerReview `json:"seller_reviews"`
	TotalPages    int            `json:"total_pages"`
}

func (p SellerReviewPage) Validate() error {
	if err := nonNegative("total_pages", p.TotalPages); err != nil {
		return err
	}
	return validateEach("seller_reviews", p.SellerReviews)
}

// ReviewsByAuthor is the pair of review lists written by one user.
type ReviewsByAuthor struct {
	ProductReviews    []ProductReview `json:"product_reviews"`
	ProductTotalPages int             `json:"product_total_pages"`
	SellerReviews     []SellerReview  `json:"seller_reviews"`
	SellerTotalPages  int             `json:"seller_total_pages"`
}

func (r ReviewsByAuthor) Validate() error {
	if err := validateEach("product_reviews", r.ProductReviews); err != nil {
		return err
	}
	return validateEach("seller_reviews", r.SellerReviews)
}

type ReviewForm struct {
	Rating  int
	Comment string
}

func (f ReviewForm) Validate() error {
	if f.Rating < 1 || f.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

type ProductReviewRequest struct {
	ProductName string `json:"product_name"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

type SellerReviewRequest struct {
	SellerID int    `json:"seller_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}
