package models

type CartItem struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	ImageURL    string `json:"image_url"`
	Price       Money  `json:"price"`
	SellerID    int    `json:"seller_id"`
	Quantity    int    `json:"quantity"`
}

func (c CartItem) Validate() error {
	if c.ProductID <= 0 {
		return schemaErr("cart item product_id %d", c.ProductID)
	}
	return nonNegative("quantity", c.Quantity)
}

// CartPage is one page of the cart. Message is set by the backend only for
// an empty cart.
type CartPage struct {
	Items      []CartItem `json:"items"`
	TotalPrice Money      `json:"total_price"`
	TotalPages int        `json:"total_pages"`
	Message    string     `json:"message,omitempty"`
}

func (c CartPage) Validate() error {
	if err := nonNegative("total_pages", c.TotalPages); err != nil {
		return err
	}
	return validateEach("items", c.Items)
}

type OrderReceipt struct {
	PurchaseID int    `json:"purchase_id"`
	DateTime   string `json:"date_time"`
	Status     string `json:"status"`
}

func (o OrderReceipt) Validate() error {
	if o.PurchaseID <= 0 {
		return schemaErr("purchase_id %d", o.PurchaseID)
	}
	return nil
}
