package shop

// LineItem is one product line in the cart.
//
// Invariant while held by a cart: Quantity >= 1 and ID is unique within the cart.
// Orders hold copies, never references, so later cart edits cannot reach them.
type LineItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int64  `json:"quantity"`
}

// Subtotal returns Price * Quantity.
func (li LineItem) Subtotal() int64 {
	return li.Price * li.Quantity
}

// Product is a catalog entry. Adding a product to the cart produces a LineItem.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Image string `json:"image"`
}

// LineItem returns a single-quantity line for the product.
func (p Product) LineItem() LineItem {
	return LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
	}
}

// Totals is derived from the cart contents on every read.
type Totals struct {
	ItemCount int64 `json:"itemCount"`
	Amount    int64 `json:"amount"`
}

// TotalsOf sums quantities and price*quantity over items.
func TotalsOf(items []LineItem) Totals {
	var t Totals
	for _, it := range items {
		t.ItemCount += it.Quantity
		t.Amount += it.Subtotal()
	}
	return t
}

// CloneItems returns a deep copy of items. LineItem has no reference fields,
// so a slice copy is sufficient.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// Customer holds the checkout form fields, captured verbatim.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Postal  string `json:"postal,omitempty"`
	Notes   string `json:"notes"`
}

// OrderStatus is the lifecycle status recorded on an order.
type OrderStatus string

const (
	// OrderPending is the only status this core ever writes.
	OrderPending OrderStatus = "pending"
	// OrderConfirmed and OrderCancelled are set out-of-band by the shop owner
	// over the messaging channel; they are accepted when reading old records.
	OrderConfirmed OrderStatus = "confirmed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is an immutable snapshot created at checkout commit.
type Order struct {
	Number   string      `json:"number"`
	Customer Customer    `json:"customer"`
	Items    []LineItem  `json:"items"`
	Total    int64       `json:"total"`
	Date     string      `json:"date"`
	Status   OrderStatus `json:"status"`
}

// GeneralProduct is the review target used when a review is not about a
// specific product.
const GeneralProduct = "general"

// Review is a customer review. Submitted reviews are never verified; only the
// built-in samples are.
type Review struct {
	Name     string `json:"name"`
	Rating   int    `json:"rating"`
	Product  string `json:"product"`
	Text     string `json:"text"`
	Date     string `json:"date"`
	Verified bool   `json:"verified"`
}

// RequestStatus tracks a support request.
type RequestStatus string

const RequestPending RequestStatus = "pending"

// CancellationRequest is written by the cancellation flow. It never alters the
// order it refers to.
type CancellationRequest struct {
	OrderNumber string        `json:"orderNumber"`
	Phone       string        `json:"phone"`
	Reason      string        `json:"reason"`
	Date        string        `json:"date"`
	Status      RequestStatus `json:"status"`
}

// ContactMessage is written by the contact flow.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// SavedCustomerForm is the autosaved subset of the checkout form.
type SavedCustomerForm struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Customer expands the saved form into checkout fields. Postal code and notes
// are never autosaved.
func (f SavedCustomerForm) Customer() Customer {
	return Customer{
		Name:    f.Name,
		Phone:   f.Phone,
		Email:   f.Email,
		Address: f.Address,
		City:    f.City,
	}
}

// FormOf extracts the autosaved subset from a customer.
func FormOf(c Customer) SavedCustomerForm {
	return SavedCustomerForm{
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		City:    c.City,
	}
}
