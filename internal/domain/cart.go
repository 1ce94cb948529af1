package domain

// CartItem is a product snapshot plus quantity. The snapshot is taken at
// add time; price changes upstream do not retroactively reprice a cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Note     string  `json:"note,omitempty"`
}

// Cart holds the customer's items until checkout converts them into an
// order. The cart itself enforces no upper quantity bound; the cart
// service caps lines.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add appends the product with quantity 1, or increments the existing
// line. A non-empty note replaces the line's note.
func (c *Cart) Add(p Product, note string) {
	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID {
			c.Items[i].Quantity++
			if note != "" {
				c.Items[i].Note = note
			}
			return
		}
	}
	c.Items = append(c.Items, CartItem{Product: p, Quantity: 1, Note: note})
}

// Remove drops the line for productID, if present.
func (c *Cart) Remove(productID uint64) {
	out := c.Items[:0]
	for _, item := range c.Items {
		if item.Product.ID != productID {
			out = append(out, item)
		}
	}
	c.Items = out
}

// SetQuantity updates the line quantity; zero or negative removes the line.
func (c *Cart) SetQuantity(productID uint64, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Total is the sum of unit price times quantity across all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount is the total number of units, not lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
