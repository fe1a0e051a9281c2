package models

import "time"

// CartItem is one product line in a session cart. Name, price and image are
// snapshotted from the catalog at add time so the cart renders without a
// second product lookup.
type CartItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Cart is the serializable session-state structure for one shopper. It is
// owned by the session store, never by the catalog tables.
type Cart struct {
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// AddItem merges the given item into the cart, summing quantities when the
// product is already present.
func (c *Cart) AddItem(item CartItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem drops the line for the given product id. Removing an absent
// product is a no-op.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Total returns the cart's price sum across all lines.
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}
