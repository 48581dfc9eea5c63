package models

type InventoryItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
	Price       Money  `json:"price"`
	IsCreator   bool   `json:"is_creator"`
}

func (i InventoryItem) Validate() error {
	if i.ID <= 0 {
		return schemaErr("inventory id %d", i.ID)
	}
	return nonNegative("quantity", i.Quantity)
}

type InventoryPage struct {
	Products   []InventoryItem `json:"products"`
	TotalItems int             `json:"total_items"`
}

func (p InventoryPage) Validate() error {
	if err := nonNegative("total_items", p.TotalItems); err != nil {
		return err
	}
	return validateEach("products", p.Products)
}

// SoldItem is a line a seller has to ship (or has shipped, in which case
// FulfillmentTime is set).
type SoldItem struct {
	ProductID       int    `json:"product_id"`
	PurchaseID      int    `json:"purchase_id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	AtPrice         Money  `json:"at_price"`
	OrderQuantity   int    `json:"order_quantity"`
	DateTime        string `json:"date_time"`
	Address         string `json:"address"`
	FulfillmentTime string `json:"fulfillment_time,omitempty"`
}

func (s SoldItem) Validate() error {
	if s.ProductID <= 0 || s.PurchaseID <= 0 {
		return schemaErr("sold item ids %d/%d", s.ProductID, s.PurchaseID)
	}
	return nil
}

// SoldItemsPage covers both the fulfilled and unfulfilled listings; the
// backend names the list differently for each.
type SoldItemsPage struct {
	Unfulfilled []SoldItem `json:"unfulfilled,omitempty"`
	Fulfilled   []SoldItem `json:"fulfilled,omitempty"`
	Total       int        `json:"total"`
}

func (p SoldItemsPage) Items() []SoldItem {
	if p.Unfulfilled != nil {
		return p.Unfulfilled
	}
	return p.Fulfilled
}

func (p SoldItemsPage) Validate() error {
	if err := nonNegative("total", p.Total); err != nil {
		return err
	}
	return validateEach("items", p.Items())
}

type StockChange struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type PriceChange struct {
	ProductID int     `json:"product_id"`
	Price     float64 `json:"price"`
}

type NewListing struct {
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}
