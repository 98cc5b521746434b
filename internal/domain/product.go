package domain

import "time"

// PackSize is a purchasable variant of a product with a per-tier price pair.
type PackSize struct {
	ID                 int64     `gorm:"primaryKey" json:"id,string"`
	ProductID          int64     `gorm:"index" json:"product_id,string"`
	Size               string    `gorm:"size:64" json:"size" form:"size"`
	PriceForWholesaler float64   `json:"priceForWholesaler" form:"priceForWholesaler"`
	PriceForRetailer   float64   `json:"priceForRetailer" form:"priceForRetailer"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName Specify table name
func (PackSize) TableName() string {
	return "pack_size"
}

// PriceFor selects the unit price for a buyer tier.
func (s *PackSize) PriceFor(tier string) float64 {
	if tier == TierWholesaler {
		return s.PriceForWholesaler
	}
	return s.PriceForRetailer
}

// Product is a catalog entry with its available pack sizes.
type Product struct {
	ID                 int64      `gorm:"primaryKey" json:"id,string"`
	ProductName        string     `gorm:"index;size:200" json:"productName" form:"productName"`
	ProductDescription string     `gorm:"size:2000" json:"productDescription" form:"productDescription"`
	ProductMainImage   string     `gorm:"size:1024" json:"productMainImage"`
	Slug               string     `gorm:"index;size:200" json:"slug" form:"slug"`
	Status             string     `gorm:"size:20;default:'active'" json:"status" form:"status"`
	AvailablePackSizes []PackSize `gorm:"foreignKey:ProductID" json:"availablePackSizes"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "product"
}

// FindPackSize returns the pack size with the given id, or nil.
func (p *Product) FindPackSize(sizeID int64) *PackSize {
	for i := range p.AvailablePackSizes {
		if p.AvailablePackSizes[i].ID == sizeID {
			return &p.AvailablePackSizes[i]
		}
	}
	return nil
}
