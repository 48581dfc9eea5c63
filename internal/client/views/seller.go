package views

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

const (
	InventoryPerPage = 2
	SoldItemsPerPage = 2
)

// InventoryView is the seller's own listings.
type InventoryView struct {
	api   InventoryAPI
	res   *Resource[models.InventoryPage]
	pages pager
}

func NewInventoryView(api InventoryAPI, stale StaleRecorder) *InventoryView {
	return &InventoryView{api: api, res: NewResource[models.InventoryPage]("inventory", stale), pages: newPager()}
}

func (v *InventoryView) Title() string { return "Inventory" }

func (v *InventoryView) Load(ctx context.Context) error {
	page := v.pages.page
	err := v.res.Load(ctx, func(ctx context.Context) (models.InventoryPage, error) {
		return v.api.Inventory(ctx, page, InventoryPerPage)
	})
	if cur, ok := v.res.Get(); ok {
		v.pages.total = format.TotalPages(cur.TotalItems, InventoryPerPage)
	}
	return err
}

func (v *InventoryView) item(i int) (models.InventoryItem, error) {
	cur, _ := v.res.Get()
	if i < 0 || i >= len(cur.Products) {
		return models.InventoryItem{}, fmt.Errorf("%w: no listing %d on this page", ErrUsage, i+1)
	}
	return cur.Products[i], nil
}

func (v *InventoryView) IncreaseStock(ctx context.Context, i, quantity int) error {
	it, err := v.item(i)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrUsage)
	}
	if err := v.api.IncreaseStock(ctx, it.ID, quantity); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *InventoryView) ChangePrice(ctx context.Context, i int, price float64) error {
	it, err := v.item(i)
	if err != nil {
		return err
	}
	if !(price > 0) {
		return fmt.Errorf("%w: price must be positive", ErrUsage)
	}
	if err := v.api.ChangePrice(ctx, it.ID, price); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *InventoryView) RemoveListing(ctx context.Context, i int) error {
	it, err := v.item(i)
	if err != nil {
		return err
	}
	if err := v.api.RemoveListing(ctx, it.ID); err != nil {
		return err
	}
	cur, _ := v.res.Get()
	if len(cur.Products) == 1 && v.pages.page > 1 {
		v.pages.page--
	}
	return v.Load(ctx)
}

func (v *InventoryView) Render(w io.Writer) {
	heading(w, v.Title())
	cur, ok := v.res.Get()
	if !ok {
		empty(w, "loading inventory...")
		return
	}
	if cur.TotalItems == 0 || len(cur.Products) == 0 {
		empty(w, "You have no products listed. Use: add")
		return
	}
	for i, p := range cur.Products {
		creator := ""
		if p.IsCreator {
			creator = format.Muted("  (catalog creator)")
		}
		fmt.Fprintf(w, "%2d. %s  %s  %d in stock  %s%s\n", i+1, format.Plain(p.Name), format.Currency(p.Price.Float()),
			p.Quantity, format.Muted(p.Category), creator)
	}
	fmt.Fprintln(w, format.Muted(v.pages.String()))
}

var inventoryCommands = append(slices.Clone(pagingCommands),
	Command{Name: "restock", Args: "<n> <quantity>", Help: "add stock to listing n"},
	Command{Name: "price", Args: "<n> <price>", Help: "change the price of listing n"},
	Command{Name: "rm", Args: "<n>", Help: "remove listing n"},
	Command{Name: "add", Help: "list a new product"},
	Command{Name: "edit", Args: "<n>", Help: "edit the catalog entry of listing n (creator only)"},
)

func (v *InventoryView) Commands() []Command { return inventoryCommands }

func (v *InventoryView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	if handled, moved, err := turn(&v.pages, name, args); handled {
		if err != nil || !moved {
			return Outcome{}, err
		}
		return Outcome{}, v.Load(ctx)
	}

	switch name {
	case "restock":
		i, ok1 := intArg(args, 0)
		q, ok2 := intArg(args, 1)
		if !ok1 || !ok2 {
			return Outcome{}, usage(inventoryCommands[3])
		}
		return Outcome{}, v.IncreaseStock(ctx, i-1, q)
	case "price":
		i, ok1 := intArg(args, 0)
		p, ok2 := floatArg(args, 1)
		if !ok1 || !ok2 {
			return Outcome{}, usage(inventoryCommands[4])
		}
		return Outcome{}, v.ChangePrice(ctx, i-1, p)
	case "rm":
		i, ok := intArg(args, 0)
		if !ok {
			return Outcome{}, usage(inventoryCommands[5])
		}
		return Outcome{}, v.RemoveListing(ctx, i-1)
	case "add":
		return Outcome{Navigate: AddProductPath}, nil
	case "edit":
		i, ok := intArg(args, 0)
		if !ok {
			return Outcome{}, usage(inventoryCommands[7])
		}
		it, err := v.item(i - 1)
		if err != nil {
			return Outcome{}, err
		}
		if !it.IsCreator {
			return Outcome{}, fmt.Errorf("only the creator of %s can edit its catalog entry", it.Name)
		}
		return Outcome{Navigate: UpdateProductPath(it.Name)}, nil
	}
	return Outcome{}, ErrUnknownCommand
}

const AddProductPath = "/account/add-product"

func UpdateProductPath(name string) string { return "/account/update-product/" + escape(name) }

// ListingForm is the state of the add product form.
type ListingForm struct {
	Name        string
	Description string
	Category    string
	ImageURL    string
	Price       float64
	Quantity    int
}

// AddProduct lists a product for sale. A name the catalog does not know yet
// is added to the catalog first, with this seller as its creator.
func AddProduct(ctx context.Context, api ListingAPI, f ListingForm) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrUsage)
	}
	if !(f.Price > 0) || f.Quantity <= 0 {
		return ErrMissingListing
	}

	avail, err := api.CheckAvailability(ctx, f.Name)
	if err != nil {
		return err
	}
	if avail.Availability {
		if f.Category == "" {
			return fmt.Errorf("%w: a new product needs a category, one of %v", ErrUsage, models.CatalogCategories)
		}
		entry := models.CatalogEntry{ProductName: f.Name, Description: f.Description, Category: f.Category, ImageURL: f.ImageURL}
		if err := api.AddToCatalog(ctx, entry); err != nil {
			return err
		}
	}
	return api.AddToInventory(ctx, models.NewListing{ProductName: f.Name, Price: f.Price, Quantity: f.Quantity})
}

// AddProductView is the add product form. Naming a product that is already
// in the catalog pulls in its catalog details, which the seller cannot
// change here.
type AddProductView struct {
	api   ListingAPI
	title string
	form  ListingForm
	known *models.Availability
}

func NewAddProductView(api ListingAPI, title string) *AddProductView {
	return &AddProductView{api: api, title: title}
}

func (v *AddProductView) Title() string { return v.title }

func (v *AddProductView) Load(context.Context) error { return nil }

func (v *AddProductView) Form() ListingForm { return v.form }

func (v *AddProductView) SetName(ctx context.Context, name string) error {
	avail, err := v.api.CheckAvailability(ctx, name)
	if err != nil {
		return err
	}
	v.form.Name = name
	if avail.Availability {
		v.known = nil
		v.form.Description, v.form.Category, v.form.ImageURL = "", "", ""
		return nil
	}
	v.known = &avail
	v.form.Description, v.form.Category, v.form.ImageURL = avail.Description, avail.Category, avail.ImageURL
	return nil
}

func (v *AddProductView) Render(w io.Writer) {
	heading(w, v.title)
	f := v.form
	if f.Name == "" {
		empty(w, "Start with: name <product name>")
	}
	fmt.Fprintf(w, "Name:        %s\n", format.Plain(f.Name))
	if v.known != nil {
		fmt.Fprintln(w, format.Muted("Already in the catalog; details come from its creator."))
	}
	fmt.Fprintf(w, "Category:    %s\n", f.Category)
	fmt.Fprintf(w, "Description: %s\n", format.Plain(f.Description))
	fmt.Fprintf(w, "Image URL:   %s\n", f.ImageURL)
	fmt.Fprintf(w, "Price:       %s\n", format.Currency(f.Price))
	fmt.Fprintf(w, "Quantity:    %d\n", f.Quantity)
}

var addProductCommands = []Command{
	{Name: "name", Args: "<name>", Help: "product name; looks it up in the catalog"},
	{Name: "category", Args: "<category>", Help: "catalog category (new products only)"},
	{Name: "description", Args: "<text>", Help: "description (new products only)"},
	{Name: "image", Args: "<url>", Help: "image URL (new products only)"},
	{Name: "price", Args: "<price>", Help: "your price"},
	{Name: "qty", Args: "<n>", Help: "how many you have"},
	{Name: "submit", Help: "create the listing"},
}

func (v *AddProductView) Commands() []Command { return addProductCommands }

func (v *AddProductView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	text := restArg(args, 0)
	switch name {
	case "name":
		if text == "" {
			return Outcome{}, usage(addProductCommands[0])
		}
		return Outcome{}, v.SetName(ctx, text)
	case "category", "description", "image":
		if v.known != nil {
			return Outcome{}, fmt.Errorf("%s comes from the existing catalog entry", name)
		}
		switch name {
		case "category":
			if !slices.Contains(models.CatalogCategories, text) {
				return Outcome{}, fmt.Errorf("%w: category is one of %v", ErrUsage, models.CatalogCategories)
			}
			v.form.Category = text
		case "description":
			v.form.Description = text
		default:
			v.form.ImageURL = text
		}
		return Outcome{}, nil
	case "price":
		p, ok := floatArg(args, 0)
		if !ok {
			return Outcome{}, usage(addProductCommands[4])
		}
		v.form.Price = p
		return Outcome{}, nil
	case "qty":
		q, ok := intArg(args, 0)
		if !ok {
			return Outcome{}, usage(addProductCommands[5])
		}
		v.form.Quantity = q
		return Outcome{}, nil
	case "submit":
		if err := AddProduct(ctx, v.api, v.form); err != nil {
			return Outcome{}, err
		}
		return Outcome{Navigate: "/account/" + TabInventory, Notice: v.form.Name + " listed."}, nil
	}
	return Outcome{}, ErrUnknownCommand
}

// UpdateProductView edits the catalog entry of a product the seller created.
type UpdateProductView struct {
	api   ListingAPI
	entry models.CatalogEntry
}

func NewUpdateProductView(api ListingAPI, name string) *UpdateProductView {
	return &UpdateProductView{api: api, entry: models.CatalogEntry{ProductName: name}}
}

func (v *UpdateProductView) Title() string { return "Update " + v.entry.ProductName }

// Load pre-fills the form from the current catalog entry.
func (v *UpdateProductView) Load(ctx context.Context) error {
	avail, err := v.api.CheckAvailability(ctx, v.entry.ProductName)
	if err != nil {
		return err
	}
	if avail.Availability {
		return fmt.Errorf("%s is not in the catalog", v.entry.ProductName)
	}
	v.entry.Description, v.entry.Category, v.entry.ImageURL = avail.Description, avail.Category, avail.ImageURL
	return nil
}

func (v *UpdateProductView) Render(w io.Writer) {
	heading(w, v.Title())
	fmt.Fprintf(w, "Category:    %s\n", v.entry.Category)
	fmt.Fprintf(w, "Description: %s\n", format.Plain(v.entry.Description))
	fmt.Fprintf(w, "Image URL:   %s\n", v.entry.ImageURL)
}

var updateProductCommands = []Command{
	{Name: "category", Args: "<category>", Help: "catalog category"},
	{Name: "description", Args: "<text>", Help: "description"},
	{Name: "image", Args: "<url>", Help: "image URL"},
	{Name: "submit", Help: "save the catalog entry"},
}

func (v *UpdateProductView) Commands() []Command { return updateProductCommands }

func (v *UpdateProductView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	text := restArg(args, 0)
	switch name {
	case "category":
		if !slices.Contains(models.CatalogCategories, text) {
			return Outcome{}, fmt.Errorf("%w: category is one of %v", ErrUsage, models.CatalogCategories)
		}
		v.entry.Category = text
	case "description":
		v.entry.Description = text
	case "image":
		v.entry.ImageURL = text
	case "submit":
		if err := v.api.UpdateCatalog(ctx, v.entry); err != nil {
			return Outcome{}, err
		}
		return Outcome{Navigate: "/account/" + TabInventory, Notice: "Catalog entry saved."}, nil
	default:
		return Outcome{}, ErrUnknownCommand
	}
	return Outcome{}, nil
}

// OrdersView lists sold items waiting to ship, or already shipped.
type OrdersView struct {
	api       OrdersAPI
	fulfilled bool
	res       *Resource[models.SoldItemsPage]
	pages     pager
}

func NewOrdersView(api OrdersAPI, stale StaleRecorder, fulfilled bool) *OrdersView {
	name := "unfulfilled_orders"
	if fulfilled {
		name = "fulfilled_orders"
	}
	return &OrdersView{api: api, fulfilled: fulfilled, res: NewResource[models.SoldItemsPage](name, stale), pages: newPager()}
}

func (v *OrdersView) Title() string {
	if v.fulfilled {
		return "Fulfilled Orders"
	}
	return "Unfulfilled Orders"
}

func (v *OrdersView) Load(ctx context.Context) error {
	page := v.pages.page
	err := v.res.Load(ctx, func(ctx context.Context) (models.SoldItemsPage, error) {
		return v.api.SoldItems(ctx, v.fulfilled, page, SoldItemsPerPage)
	})
	if cur, ok := v.res.Get(); ok {
		v.pages.total = format.TotalPages(cur.Total, SoldItemsPerPage)
	}
	return err
}

// Fulfill marks line i of the current page as shipped.
func (v *OrdersView) Fulfill(ctx context.Context, i int) error {
	if v.fulfilled {
		return fmt.Errorf("%w: already fulfilled", ErrUsage)
	}
	cur, _ := v.res.Get()
	items := cur.Items()
	if i < 0 || i >= len(items) {
		return fmt.Errorf("%w: no order line %d on this page", ErrUsage, i+1)
	}
	if err := v.api.FulfillItem(ctx, items[i].ProductID, items[i].PurchaseID); err != nil {
		return err
	}
	if len(items) == 1 && v.pages.page > 1 {
		v.pages.page--
	}
	return v.Load(ctx)
}

func (v *OrdersView) Render(w io.Writer) {
	heading(w, v.Title())
	cur, ok := v.res.Get()
	if !ok {
		empty(w, "loading orders...")
		return
	}
	items := cur.Items()
	if len(items) == 0 {
		empty(w, "No orders here.")
		return
	}
	for i, it := range items {
		fmt.Fprintf(w, "%2d. order %d  %s x %d @ %s  %s\n", i+1, it.PurchaseID, format.Plain(it.Name), it.OrderQuantity,
			format.Currency(it.AtPrice.Float()), format.Muted(it.DateTime))
		fmt.Fprintf(w, "    ship to %s\n", format.Plain(it.Address))
		if it.FulfillmentTime != "" {
			fmt.Fprintf(w, "    %s\n", format.Success("fulfilled on "+it.FulfillmentTime))
		}
	}
	fmt.Fprintln(w, format.Muted(v.pages.String()))
}

var ordersCommands = append(slices.Clone(pagingCommands),
	Command{Name: "fulfill", Args: "<n>", Help: "mark order line n as shipped"},
)

func (v *OrdersView) Commands() []Command {
	if v.fulfilled {
		return pagingCommands
	}
	return ordersCommands
}

func (v *OrdersView) Handle(ctx context.Context, name string, args []string) (Outcome, error) {
	if handled, moved, err := turn(&v.pages, name, args); handled {
		if err != nil || !moved {
			return Outcome{}, err
		}
		return Outcome{}, v.Load(ctx)
	}
	if name == "fulfill" && !v.fulfilled {
		i, ok := intArg(args, 0)
		if !ok {
			return Outcome{}, usage(ordersCommands[3])
		}
		if err := v.Fulfill(ctx, i-1); err != nil {
			return Outcome{}, err
		}
		return Outcome{Notice: "Marked as fulfilled."}, nil
	}
	return Outcome{}, ErrUnknownCommand
}
