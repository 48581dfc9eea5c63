package models

// Filters accepted by the product listing endpoint.
const (
	FilterNone           = "None"
	FilterPriceLowHigh   = "price_low_high"
	FilterPriceHighLow   = "price_high_low"
	FilterAvgRating      = "avg_rating"
	FilterTotalPurchases = "total_purchases"
)

var Filters = []string{FilterNone, FilterPriceLowHigh, FilterPriceHighLow, FilterAvgRating, FilterTotalPurchases}

// Browse categories (query values) and the catalog categories a seller picks
// from when creating a product.
var (
	Categories        = []string{"all", "flowers", "succulents", "herbs", "fruit-veg"}
	CatalogCategories = []string{"Flowers", "Succulents", "Herbs", "Fruits and Vegetables"}
)

type ProductQuery struct {
	Category string
	Page     int
	Filter   string
	Search   string
}

// ProductCard is one product in a listing. AvgRating is null for products
// without reviews.
type ProductCard struct {
	ProductID      int      `json:"product_id"`
	ProductName    string   `json:"product_name"`
	MinPrice       Money    `json:"min_price"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"image_url"`
	AvgRating      *float64 `json:"avg_rating"`
	TotalReviews   int      `json:"total_reviews"`
	TotalPurchases int      `json:"total_purchases"`
}

func (p ProductCard) Validate() error {
	if p.ProductName == "" {
		return schemaErr("product_name is empty")
	}
	return nil
}

type ProductPage struct {
	Products   []ProductCard `json:"products"`
	TotalPages int           `json:"totalPages"`
}

func (p ProductPage) Validate() error {
	if err := nonNegative("totalPages", p.TotalPages); err != nil {
		return err
	}
	return validateEach("products", p.Products)
}

// Product is the detail record returned by /products/{name}.
type Product struct {
	ProductID      int      `json:"product_id"`
	ProductName    string   `json:"product_name"`
	SellerID       int      `json:"seller_id"`
	CreatorID      int      `json:"creator_id"`
	Price          Money    `json:"price"`
	Quantity       int      `json:"quantity"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"image_url"`
	AvgRating      *float64 `json:"avg_rating"`
	TotalReviews   int      `json:"total_reviews"`
	TotalPurchases int      `json:"total_purchases"`
}

func (p Product) Validate() error {
	if p.ProductName == "" {
		return schemaErr("product_name is empty")
	}
	return nil
}

// Listing is one seller's offer of a product.
type Listing struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	SellerID    int    `json:"seller_id"`
	SellerName  string `json:"seller_name"`
	Price       Money  `json:"price"`
	Quantity    int    `json:"quantity"`
	Active      bool   `json:"active"`
}

func (l Listing) Validate() error {
	if l.ProductID <= 0 {
		return schemaErr("listing product_id %d", l.ProductID)
	}
	return nonNegative("quantity", l.Quantity)
}

func (l Listing) SoldOut() bool { return l.Quantity == 0 }

// SellerProduct is a product in a seller's public catalog.
type SellerProduct struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       Money  `json:"price"`
	Quantity    int    `json:"quantity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (p SellerProduct) Validate() error {
	if p.ProductName == "" {
		return schemaErr("product_name is empty")
	}
	return nil
}

type SellerProductPage struct {
	Products   []SellerProduct `json:"products"`
	TotalCount int             `json:"total_count"`
}

func (p SellerProductPage) Validate() error {
	if err := nonNegative("total_count", p.TotalCount); err != nil {
		return err
	}
	return validateEach("products", p.Products)
}

// Availability answers whether a product name is free in the catalog. When
// it is taken the existing catalog details are filled in.
type Availability struct {
	Availability bool   `json:"availability"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	Category     string `json:"category"`
}

type CatalogEntry struct {
	ProductName string `json:"product_name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}
