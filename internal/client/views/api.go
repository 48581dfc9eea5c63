package views

import (
	"context"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

// The interfaces below are the slices of the backend client each view uses.
// *client.Client implements all of them.

type CatalogAPI interface {
	Products(ctx context.Context, q models.ProductQuery) (models.ProductPage, error)
}

type ProductAPI interface {
	Product(ctx context.Context, name string) (models.Product, error)
	Listings(ctx context.Context, name string) ([]models.Listing, error)
	ProductRatingSummary(ctx context.Context, name string) (models.RatingSummary, error)
	ProductReviews(ctx context.Context, name string, page, perPage int) (models.ProductReviewPage, error)
	ProductReviewUpvoted(ctx context.Context, name string, buyerID int) (bool, error)
	SetProductReviewUpvote(ctx context.Context, name string, buyerID int, on bool) error
	AddToCart(ctx context.Context, productID int) error
	ProductReviewAPI
}

type ProductReviewAPI interface {
	ProductPurchases(ctx context.Context, name string) (int, error)
	MyProductReview(ctx context.Context, name string) (*models.ProductReview, error)
	SaveProductReview(ctx context.Context, exists bool, r models.ProductReviewRequest) error
	DeleteProductReview(ctx context.Context, name string) error
}

type SellerReviewAPI interface {
	SellerPurchases(ctx context.Context, sellerID int) (int, error)
	MySellerReview(ctx context.Context, sellerID int) (*models.SellerReview, error)
	SaveSellerReview(ctx context.Context, exists bool, r models.SellerReviewRequest) error
	DeleteSellerReview(ctx context.Context, sellerID int) error
}

type CartAPI interface {
	Cart(ctx context.Context, page, perPage int) (models.CartPage, error)
	AddToCart(ctx context.Context, productID int) error
	DecreaseQuantity(ctx context.Context, productID int) error
	RemoveFromCart(ctx context.Context, productID int) error
	ClearCart(ctx context.Context) error
	PlaceOrder(ctx context.Context) (models.OrderReceipt, error)
}

type AccountAPI interface {
	Account(ctx context.Context) (models.Account, error)
	UpdateAccountField(ctx context.Context, field string, value any) error
	IsSeller(ctx context.Context) (bool, error)
}

type HistoryAPI interface {
	PurchaseHistory(ctx context.Context, page, perPage int, sortBy string) (models.PurchasePage, error)
	OrderItems(ctx context.Context, purchaseID int) (models.OrderItems, error)
}

type InventoryAPI interface {
	Inventory(ctx context.Context, page, perPage int) (models.InventoryPage, error)
	IncreaseStock(ctx context.Context, productID, quantity int) error
	ChangePrice(ctx context.Context, productID int, price float64) error
	RemoveListing(ctx context.Context, productID int) error
	ListingAPI
}

// ListingAPI creates listings and edits catalog entries.
type ListingAPI interface {
	CheckAvailability(ctx context.Context, name string) (models.Availability, error)
	AddToCatalog(ctx context.Context, e models.CatalogEntry) error
	UpdateCatalog(ctx context.Context, e models.CatalogEntry) error
	AddToInventory(ctx context.Context, l models.NewListing) error
}

type OrdersAPI interface {
	SoldItems(ctx context.Context, fulfilled bool, page, perPage int) (models.SoldItemsPage, error)
	FulfillItem(ctx context.Context, productID, purchaseID int) error
}

type UserAPI interface {
	SearchUser(ctx context.Context, userID int) (models.UserSummary, error)
	User(ctx context.Context, userID int) (models.PublicUser, error)
	UserIsSeller(ctx context.Context, userID int) (bool, error)
	SellerRatingSummary(ctx context.Context, sellerID int) (models.RatingSummary, error)
	SellerReviews(ctx context.Context, sellerID, page, perPage int) (models.SellerReviewPage, error)
	SellerProducts(ctx context.Context, sellerID, page, pageSize int) (models.SellerProductPage, error)
	UserReviews(ctx context.Context, userID, productPage, sellerPage, perPage int) (models.ReviewsByAuthor, error)
	SellerReviewUpvoted(ctx context.Context, sellerID, buyerID int) (bool, error)
	SetSellerReviewUpvote(ctx context.Context, sellerID, buyerID int, on bool) error
	SellerReviewAPI
}

type SocialAPI interface {
	MyReviews(ctx context.Context, productPage, sellerPage, perPage int) (models.ReviewsByAuthor, error)
	DeleteProductReview(ctx context.Context, name string) error
	DeleteSellerReview(ctx context.Context, sellerID int) error
}
