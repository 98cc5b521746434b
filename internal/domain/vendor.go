package domain

import "time"

// Vendor represents a registered vendor account. Mobile is the natural
// key referenced by the cart and order tables. A vendor flagged as
// salesman buys at wholesaler prices.
type Vendor struct {
	ID          int64      `json:"id,string" form:"id"`
	VendorName  string     `gorm:"size:200" json:"vendorName" form:"vendorName"`
	ShopName    string     `gorm:"size:200" json:"shopName" form:"shopName"`
	Mobile      string     `gorm:"uniqueIndex;size:20" json:"mobile" form:"mobile"`
	Password    string     `gorm:"size:128" json:"-"`
	GstNo       string     `gorm:"size:32" json:"gstNo" form:"gstNo"`
	ShopNo      string     `gorm:"size:64" json:"shopNo" form:"shopNo"`
	Address     string     `gorm:"size:500" json:"address" form:"address"`
	Landmark    string     `gorm:"size:200" json:"landmark" form:"landmark"`
	City        string     `gorm:"size:100" json:"city" form:"city"`
	State       string     `gorm:"size:100" json:"state" form:"state"`
	PinCode     string     `gorm:"size:16" json:"pinCode" form:"pinCode"`
	Salesman    bool       `json:"salesman" form:"salesman"`
	Otp         string     `gorm:"size:8" json:"-"`
	OtpExpireAt *time.Time `json:"-"`
	Verified    bool       `json:"verified"`
	LastLogin   time.Time  `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Vendor) TableName() string {
	return "vendor"
}

// Tier returns the buyer classification used for price selection.
func (v *Vendor) Tier() string {
	if v.Salesman {
		return TierWholesaler
	}
	return TierRetailer
}

const (
	TierWholesaler = "wholesaler"
	TierRetailer   = "retailer"
)
