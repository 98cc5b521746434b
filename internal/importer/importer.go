// Package importer loads data exported from the legacy flat-file
// deployment. The legacy store kept one JSON document per collection
// (vendors.json, products.json, carts.json, orders.json) with string
// ids and plaintext passwords; the import maps ids to generated ones
// and hashes the passwords.
package importer

import (
	"context"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vendormart/vendormart/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IDSource yields unique ids for imported rows.
type IDSource interface {
	NextID() int64
}

type legacyVendor struct {
	VendorName string `json:"vendorName"`
	ShopName   string `json:"shopName"`
	Mobile     string `json:"mobile"`
	Password   string `json:"password"`
	GstNo      string `json:"gstNo"`
	ShopNo     string `json:"shopNo"`
	Address    string `json:"address"`
	Landmark   string `json:"landmark"`
	City       string `json:"city"`
	State      string `json:"state"`
	PinCode    string `json:"pinCode"`
	Salesman   bool   `json:"salesman"`
	Verified   bool   `json:"verified"`
}

type legacyPackSize struct {
	ID                 string  `json:"_id"`
	Size               string  `json:"size"`
	PriceForWholesaler float64 `json:"priceForWholesaler"`
	PriceForRetailer   float64 `json:"priceForRetailer"`
}

type legacyProduct struct {
	ID                 string           `json:"_id"`
	ProductName        string           `json:"productName"`
	ProductDescription string           `json:"productDescription"`
	ProductMainImage   string           `json:"productMainImage"`
	Slug               string           `json:"slug"`
	Status             string           `json:"status"`
	AvailablePackSizes []legacyPackSize `json:"availablePackSizes"`
}

type legacyCartLine struct {
	ProductID        string  `json:"productId"`
	ProductName      string  `json:"productName"`
	ProductMainImage string  `json:"productMainImage"`
	SizeID           string  `json:"sizeId"`
	Size             string  `json:"size"`
	Qty              int     `json:"qty"`
	Price            float64 `json:"price"`
	Subtotal         float64 `json:"subtotal"`
}

type legacyCart struct {
	Mobile      string           `json:"mobile"`
	Total       float64          `json:"total"`
	ProductList []legacyCartLine `json:"productlist"`
}

type legacyOrder struct {
	OrderID   string           `json:"orderId"`
	Mobile    string           `json:"mobile"`
	Total     float64          `json:"total"`
	Remark    string           `json:"remark"`
	Status    string           `json:"status"`
	Products  []legacyCartLine `json:"products"`
	CreatedAt string           `json:"createdAt"`
}

// Importer converts legacy collections into database rows. Legacy
// string ids are remapped; cross-references inside a run stay
// consistent via the id tables.
type Importer struct {
	db         *gorm.DB
	ids        IDSource
	productIDs map[string]int64
	sizeIDs    map[string]int64
}

func New(db *gorm.DB, ids IDSource) *Importer {
	return &Importer{
		db:         db,
		ids:        ids,
		productIDs: make(map[string]int64),
		sizeIDs:    make(map[string]int64),
	}
}

func readCollection(dir, name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read %s", name)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "parse %s", name)
	}
	return nil
}

// ImportDir imports every collection file found under dir. Missing
// files are skipped; products must precede carts and orders so the id
// remapping tables are populated.
func (im *Importer) ImportDir(ctx context.Context, dir string) error {
	if err := im.importVendors(ctx, dir); err != nil {
		return err
	}
	if err := im.importProducts(ctx, dir); err != nil {
		return err
	}
	if err := im.importCarts(ctx, dir); err != nil {
		return err
	}
	return im.importOrders(ctx, dir)
}

func (im *Importer) importVendors(ctx context.Context, dir string) error {
	var vendors []legacyVendor
	if err := readCollection(dir, "vendors.json", &vendors); err != nil {
		return err
	}
	for _, lv := range vendors {
		hash, err := bcrypt.GenerateFromPassword([]byte(lv.Password), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hash password")
		}
		v := domain.Vendor{
			ID:         im.ids.NextID(),
			VendorName: lv.VendorName,
			ShopName:   lv.ShopName,
			Mobile:     lv.Mobile,
			Password:   string(hash),
			GstNo:      lv.GstNo,
			ShopNo:     lv.ShopNo,
			Address:    lv.Address,
			Landmark:   lv.Landmark,
			City:       lv.City,
			State:      lv.State,
			PinCode:    lv.PinCode,
			Salesman:   lv.Salesman,
			Verified:   lv.Verified,
		}
		if err := im.db.WithContext(ctx).Create(&v).Error; err != nil {
			return errors.Wrapf(err, "import vendor %s", lv.Mobile)
		}
	}
	zap.L().Info("imported vendors", zap.Int("count", len(vendors)))
	return nil
}

func (im *Importer) importProducts(ctx context.Context, dir string) error {
	var products []legacyProduct
	if err := readCollection(dir, "products.json", &products); err != nil {
		return err
	}
	for _, lp := range products {
		p := domain.Product{
			ID:                 im.ids.NextID(),
			ProductName:        lp.ProductName,
			ProductDescription: lp.ProductDescription,
			ProductMainImage:   lp.ProductMainImage,
			Slug:               lp.Slug,
			Status:             lp.Status,
		}
		if p.Status == "" {
			p.Status = "active"
		}
		im.productIDs[lp.ID] = p.ID
		for _, ls := range lp.AvailablePackSizes {
			ps := domain.PackSize{
				ID:                 im.ids.NextID(),
				ProductID:          p.ID,
				Size:               ls.Size,
				PriceForWholesaler: ls.PriceForWholesaler,
				PriceForRetailer:   ls.PriceForRetailer,
			}
			im.sizeIDs[ls.ID] = ps.ID
			p.AvailablePackSizes = append(p.AvailablePackSizes, ps)
		}
		if err := im.db.WithContext(ctx).Create(&p).Error; err != nil {
			return errors.Wrapf(err, "import product %s", lp.ProductName)
		}
	}
	zap.L().Info("imported products", zap.Int("count", len(products)))
	return nil
}

func (im *Importer) importCarts(ctx context.Context, dir string) error {
	var carts []legacyCart
	if err := readCollection(dir, "carts.json", &carts); err != nil {
		return err
	}
	for _, lc := range carts {
		c := domain.Cart{
			ID:     im.ids.NextID(),
			Mobile: lc.Mobile,
		}
		for _, line := range lc.ProductList {
			c.Items = append(c.Items, domain.CartItem{
				ID:               im.ids.NextID(),
				CartID:           c.ID,
				ProductID:        im.productIDs[line.ProductID],
				ProductName:      line.ProductName,
				ProductMainImage: line.ProductMainImage,
				SizeID:           im.sizeIDs[line.SizeID],
				Size:             line.Size,
				Qty:              line.Qty,
				Price:            line.Price,
			})
		}
		// Legacy totals drifted in place; recompute instead of trusting
		// the stored field.
		c.Recalc()
		if err := im.db.WithContext(ctx).Create(&c).Error; err != nil {
			return errors.Wrapf(err, "import cart %s", lc.Mobile)
		}
	}
	zap.L().Info("imported carts", zap.Int("count", len(carts)))
	return nil
}

func (im *Importer) importOrders(ctx context.Context, dir string) error {
	var orders []legacyOrder
	if err := readCollection(dir, "orders.json", &orders); err != nil {
		return err
	}
	for _, lo := range orders {
		created := time.Now()
		if t, err := time.Parse(time.RFC3339, lo.CreatedAt); err == nil {
			created = t
		}
		o := domain.Order{
			ID:        im.ids.NextID(),
			Mobile:    lo.Mobile,
			Total:     lo.Total,
			Remark:    lo.Remark,
			Status:    lo.Status,
			CreatedAt: created,
			UpdatedAt: created,
		}
		if o.Remark == "" {
			o.Remark = "N/A"
		}
		if o.Status == "" {
			o.Status = domain.OrderStatusPending
		}
		for _, line := range lo.Products {
			o.Items = append(o.Items, domain.OrderItem{
				ID:               im.ids.NextID(),
				OrderID:          o.ID,
				ProductID:        im.productIDs[line.ProductID],
				ProductName:      line.ProductName,
				ProductMainImage: line.ProductMainImage,
				SizeID:           im.sizeIDs[line.SizeID],
				Size:             line.Size,
				Qty:              line.Qty,
				Price:            line.Price,
				Subtotal:         line.Subtotal,
				CreatedAt:        created,
			})
		}
		if err := im.db.WithContext(ctx).Create(&o).Error; err != nil {
			return errors.Wrapf(err, "import order %s", lo.OrderID)
		}
	}
	zap.L().Info("imported orders", zap.Int("count", len(orders)))
	return nil
}
