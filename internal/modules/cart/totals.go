package cart

// Totals are the cart-level monetary aggregates.
type Totals struct {
	TotalAmount float64 `json:"total_amount"`
	BillAmount  float64 `json:"bill_amount"`
	Discount    float64 `json:"discount"`
}

// ComputeTotals sums list price, offer price and discount over items.
func ComputeTotals(items []LineItem) Totals {
	var t Totals
	for _, item := range items {
		qty := float64(item.Quantity)
		t.TotalAmount += item.Product.MRP * qty
		t.BillAmount += item.Product.Price * qty
		t.Discount += (item.Product.MRP - item.Product.Price) * qty
	}
	return t
}

func sumQuantity(items []LineItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
