package cart

// DefaultInventoryCap bounds a line's quantity when the product carries no inventory count.
const DefaultInventoryCap = 10

// Product is the descriptor a caller hands to AddItem.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
	Price     float64 `json:"price"` // offer price
	MRP       float64 `json:"mrp"`   // list price
	SellerID  string  `json:"seller_id"`
	Inventory int     `json:"inventory,omitempty"`
}

// InventoryCap is the largest quantity a single line may reach.
func (p Product) InventoryCap() int {
	if p.Inventory <= 0 {
		return DefaultInventoryCap
	}
	return p.Inventory
}

// LineItem is one product in the cart with its running sums.
type LineItem struct {
	Product    Product `json:"product"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"` // mrp * quantity
	BillPrice  float64 `json:"bill_price"`  // price * quantity
	Discount   float64 `json:"discount"`    // (mrp - price) * quantity
}

// State is an immutable-by-convention cart snapshot.
type State struct {
	Items         []LineItem `json:"items"`
	TotalQuantity int        `json:"total_quantity"`
	TotalAmount   float64    `json:"total_amount"`
	BillAmount    float64    `json:"bill_amount"`
	Discount      float64    `json:"discount"`
	SellerID      string     `json:"seller_id,omitempty"`
}

// Line returns the line for productID, if any.
func (s State) Line(productID string) (LineItem, bool) {
	if i := s.index(productID); i >= 0 {
		return s.Items[i], true
	}
	return LineItem{}, false
}

// Len is the number of distinct lines.
func (s State) Len() int { return len(s.Items) }

// Empty reports whether the cart holds no lines.
func (s State) Empty() bool { return len(s.Items) == 0 }

func (s State) index(productID string) int {
	for i := range s.Items {
		if s.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	out := s
	out.Items = make([]LineItem, len(s.Items))
	copy(out.Items, s.Items)
	return out
}
