package domain

import "time"

// Order statuses. Only Pending is assigned by checkout; the rest are
// driven by order management.
const (
	OrderStatusPending   = "Pending"
	OrderStatusAccepted  = "Accepted"
	OrderStatusCancelled = "Cancelled"
	OrderStatusDelivery  = "OutForDelivery"
	OrderStatusDelivered = "Delivered"
)

// Order is an immutable snapshot of a cart taken at checkout. Only
// Status and UpdatedAt change afterwards.
type Order struct {
	ID        int64       `gorm:"primaryKey" json:"orderId,string"`
	Mobile    string      `gorm:"index;size:20" json:"mobile"`
	Total     float64     `json:"total"`
	Remark    string      `gorm:"size:500" json:"remark"`
	Status    string      `gorm:"index;size:20" json:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"products"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "purchase_order"
}

// OrderItem mirrors the cart line it was copied from.
type OrderItem struct {
	ID               int64     `gorm:"primaryKey" json:"id,string"`
	OrderID          int64     `gorm:"index" json:"-"`
	ProductID        int64     `json:"productId,string"`
	ProductName      string    `gorm:"size:200" json:"productName"`
	ProductMainImage string    `gorm:"size:1024" json:"productMainImage"`
	SizeID           int64     `json:"sizeId,string"`
	Size             string    `gorm:"size:64" json:"size"`
	Qty              int       `json:"qty"`
	Price            float64   `json:"price"`
	Subtotal         float64   `json:"subtotal"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "purchase_order_item"
}
