package entity

import "github.com/shopspring/decimal"

// CartItem is a snapshot of a menu item taken when it was added to the cart
type CartItem struct {
	MenuItemID  string          `json:"menu_item_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageRef    string          `json:"image_ref,omitempty"`
	Description string          `json:"description,omitempty"`
	IsPopular   bool            `json:"is_popular"`
	IsAvailable bool            `json:"is_available"`
	Quantity    int             `json:"quantity"`
	Notes       string          `json:"notes,omitempty"`
}

// LineTotal is price × quantity, rounded to money places
func (i CartItem) LineTotal() decimal.Decimal {
	return RoundMoney(i.Price.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// Cart is the in-progress order of one cashier. Lines keep insertion order
// and every line has a positive quantity.
type Cart struct {
	Items []CartItem `json:"items"`
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{Items: []CartItem{}}
}

func (c *Cart) index(menuItemID string) int {
	for i := range c.Items {
		if c.Items[i].MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

// Add increments the line for the item, or appends a snapshot with quantity 1
func (c *Cart) Add(item *MenuItem) {
	if i := c.index(item.ID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	c.Items = append(c.Items, CartItem{
		MenuItemID:  item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Category:    item.Category,
		ImageRef:    item.ImageRef,
		Description: item.Description,
		IsPopular:   item.IsPopular,
		IsAvailable: item.IsAvailable,
		Quantity:    1,
	})
}

// UpdateQuantity adds delta to the line; a result of zero or less removes it.
// Unknown ids are ignored. Reports whether the cart changed.
func (c *Cart) UpdateQuantity(menuItemID string, delta int) bool {
	i := c.index(menuItemID)
	if i < 0 || delta == 0 {
		return false
	}
	q := c.Items[i].Quantity + delta
	if q <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	c.Items[i].Quantity = q
	return true
}

// Remove drops the line for the item, if any
func (c *Cart) Remove(menuItemID string) bool {
	i := c.index(menuItemID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// SetNotes attaches kitchen notes to a line
func (c *Cart) SetNotes(menuItemID, notes string) bool {
	i := c.index(menuItemID)
	if i < 0 {
		return false
	}
	c.Items[i].Notes = notes
	return true
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItemCount is the sum of quantities
func (c *Cart) TotalItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is the sum of line totals before discount and tax
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	return RoundMoney(total)
}

// Normalize drops lines that break the cart invariants, such as a
// non-positive quantity or a missing id, and merges duplicate ids.
// Reports whether anything was dropped.
func (c *Cart) Normalize() bool {
	changed := false
	out := make([]CartItem, 0, len(c.Items))
	seen := make(map[string]int, len(c.Items))
	for _, it := range c.Items {
		if it.MenuItemID == "" || it.Quantity <= 0 || it.Price.IsNegative() {
			changed = true
			continue
		}
		if j, ok := seen[it.MenuItemID]; ok {
			out[j].Quantity += it.Quantity
			changed = true
			continue
		}
		seen[it.MenuItemID] = len(out)
		out = append(out, it)
	}
	c.Items = out
	return changed
}
