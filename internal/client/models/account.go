package models

// Editable account fields.
const (
	FieldFirstname = "firstname"
	FieldLastname  = "lastname"
	FieldEmail     = "email"
	FieldAddress   = "address"
	FieldPassword  = "password"
	FieldBalance   = "balance"
)

var AccountFields = []string{FieldFirstname, FieldLastname, FieldEmail, FieldAddress, FieldPassword}

type Account struct {
	UserID    int    `json:"user_id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Balance   Money  `json:"balance"`
}

func (a Account) Validate() error {
	if a.UserID <= 0 {
		return schemaErr("user_id %d", a.UserID)
	}
	if a.Email == "" {
		return schemaErr("email is empty")
	}
	return nil
}

type RegisterRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Password  string `json:"password"`
}

type Registration struct {
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Sort keys for purchase history.
const (
	SortByDate  = "date_time"
	SortByTotal = "total_amount"
	SortByItems = "number_of_items"
)

var PurchaseSorts = []string{SortByDate, SortByTotal, SortByItems}

type Purchase struct {
	OrderID           int    `json:"order_id"`
	PurchaseDate      string `json:"purchase_date"`
	TotalAmount       Money  `json:"total_amount"`
	NumberOfItems     int    `json:"number_of_items"`
	FulfillmentStatus bool   `json:"fulfillment_status"`
}

func (p Purchase) Validate() error {
	if p.OrderID <= 0 {
		return schemaErr("order_id %d", p.OrderID)
	}
	return nil
}

type PurchasePage struct {
	Purchases   []Purchase `json:"purchases"`
	TotalPages  int        `json:"total_pages"`
	TotalOrders int        `json:"total_orders"`
}

func (p PurchasePage) Validate() error {
	if err := nonNegative("total_pages", p.TotalPages); err != nil {
		return err
	}
	return validateEach("purchases", p.Purchases)
}

// OrderItem is one line of a past purchase. AtBalance is the signed balance
// movement of the whole purchase, repeated on every line.
type OrderItem struct {
	ProductID         int    `json:"product_id"`
	ProductName       string `json:"product_name"`
	ImageURL          string `json:"image_url"`
	Quantity          int    `json:"quantity"`
	PriceAtPurchase   Money  `json:"price_at_purchase"`
	SellerID          int    `json:"seller_id"`
	SellerName        string `json:"seller_name"`
	AtBalance         Money  `json:"at_balance"`
	PurchaseDate      string `json:"purchase_date"`
	FulfillmentStatus bool   `json:"fulfillment_status"`
	FulfillmentTime   string `json:"fulfillment_time"`
}

func (o OrderItem) Validate() error {
	if o.ProductName == "" {
		return schemaErr("product_name is empty")
	}
	return nonNegative("quantity", o.Quantity)
}

type OrderItems struct {
	Items []OrderItem `json:"items"`
}

func (o OrderItems) Validate() error {
	return validateEach("items", o.Items)
}

// GrandTotal is the absolute balance movement of the order.
func (o OrderItems) GrandTotal() float64 {
	if len(o.Items) == 0 {
		return 0
	}
	v := o.Items[0].AtBalance.Float()
	if v < 0 {
		return -v
	}
	return v
}

type SellerStatus struct {
	SellerStatus bool `json:"seller_status"`
}
