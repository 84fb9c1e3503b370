package cart

// Reducer applies cart mutations to a State and returns the next State.
// The input State is never modified.
type Reducer struct {
	// unguardedRemove keeps TotalQuantity as a running counter that
	// RemoveItem decrements even when no line matched, and leaves SellerID
	// set after the last line is removed.
	unguardedRemove bool
}

var defaultReducer = Reducer{}

// AddItem adds one unit of p using the default reducer.
func AddItem(s State, p Product) State { return defaultReducer.AddItem(s, p) }

// RemoveItem removes one unit of productID using the default reducer.
func RemoveItem(s State, productID string) State { return defaultReducer.RemoveItem(s, productID) }

// Clear returns the empty cart.
func Clear() State { return State{Items: []LineItem{}} }

// AddItem adds one unit of p. A product from a different seller replaces the
// whole cart. An increment beyond the product's inventory cap is ignored.
func (r Reducer) AddItem(s State, p Product) State {
	next := s.clone()

	switch {
	case next.SellerID != "" && next.SellerID != p.SellerID:
		next = Clear()
		next.SellerID = p.SellerID
	case next.SellerID == "":
		next.SellerID = p.SellerID
	}

	if i := next.index(p.ID); i >= 0 {
		line := &next.Items[i]
		if line.Quantity >= p.InventoryCap() {
			return s
		}
		line.Quantity++
		line.TotalPrice += p.MRP
		line.Discount += p.MRP - p.Price
		line.BillPrice += p.Price
	} else {
		next.Items = append(next.Items, LineItem{
			Product:    p,
			Quantity:   1,
			TotalPrice: p.MRP,
			Discount:   p.MRP - p.Price,
			BillPrice:  p.Price,
		})
	}

	if r.unguardedRemove {
		next.TotalQuantity++
	}
	return r.settle(next)
}

// RemoveItem removes one unit of productID; the line disappears at zero.
func (r Reducer) RemoveItem(s State, productID string) State {
	next := s.clone()

	if i := next.index(productID); i >= 0 {
		line := &next.Items[i]
		if line.Quantity == 1 {
			next.Items = append(next.Items[:i], next.Items[i+1:]...)
		} else {
			line.Quantity--
			line.TotalPrice -= line.Product.MRP
			line.Discount -= line.Product.MRP - line.Product.Price
			line.BillPrice -= line.Product.Price
		}
	}

	if r.unguardedRemove {
		next.TotalQuantity--
	}
	return r.settle(next)
}

func (r Reducer) settle(s State) State {
	t := ComputeTotals(s.Items)
	s.TotalAmount = t.TotalAmount
	s.BillAmount = t.BillAmount
	s.Discount = t.Discount
	if !r.unguardedRemove {
		s.TotalQuantity = sumQuantity(s.Items)
		if len(s.Items) == 0 {
			s.SellerID = ""
		}
	}
	return s
}
