package testserver

import (
	"net/http"
)

// The fake backend has no reviews. These handlers answer the reads a
// product page makes with empty data.

func (s *Server) productRatingSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"average_rating": 0, "lowest_rating": nil, "highest_rating": nil, "total_ratings": 0,
	})
}

func (s *Server) productReviews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"product_reviews": []any{}, "total_pages": 0})
}

// countFulfilledPurchases is always zero: nothing gets fulfilled here.
func (s *Server) countFulfilledPurchases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"count_purchases": 0})
}

func (s *Server) myProductReview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"product_review": []any{}})
}
