package domain

import "time"

// Cart holds the pending purchase lines of one vendor. At most one cart
// exists per mobile; the unique index enforces it.
type Cart struct {
	ID        int64      `gorm:"primaryKey" json:"id,string"`
	Mobile    string     `gorm:"uniqueIndex;size:20" json:"mobile"`
	Total     float64    `json:"total"`
	Items     []CartItem `gorm:"foreignKey:CartID" json:"productlist"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Cart) TableName() string {
	return "cart"
}

// Recalc restores the cart invariants: every line subtotal equals
// qty*price and the cart total equals the sum of line subtotals.
func (c *Cart) Recalc() {
	total := 0.0
	for i := range c.Items {
		c.Items[i].Subtotal = float64(c.Items[i].Qty) * c.Items[i].Price
		total += c.Items[i].Subtotal
	}
	c.Total = total
}

// FindItem locates a line by product and pack size. A pair appears at
// most once per cart.
func (c *Cart) FindItem(productID, sizeID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].SizeID == sizeID {
			return &c.Items[i]
		}
	}
	return nil
}

// CartItem is one purchase line. Price is the unit price resolved for
// the buyer tier at add time and never re-resolved afterwards.
type CartItem struct {
	ID               int64     `gorm:"primaryKey" json:"id,string"`
	CartID           int64     `gorm:"index" json:"-"`
	ProductID        int64     `gorm:"index" json:"productId,string"`
	ProductName      string    `gorm:"size:200" json:"productName"`
	ProductMainImage string    `gorm:"size:1024" json:"productMainImage"`
	SizeID           int64     `json:"sizeId,string"`
	Size             string    `gorm:"size:64" json:"size"`
	Qty              int       `json:"qty"`
	Price            float64   `json:"price"`
	Subtotal         float64   `json:"subtotal"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName Specify table name
func (CartItem) TableName() string {
	return "cart_item"
}
