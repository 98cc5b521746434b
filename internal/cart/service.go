package cart

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/vendormart/vendormart/internal/domain"
	"go.uber.org/zap"
)

// VendorFinder resolves the buyer account, nil when absent.
type VendorFinder interface {
	FindByMobile(ctx context.Context, mobile string) (*domain.Vendor, error)
}

// ProductFinder resolves a catalog product with pack sizes, nil when absent.
type ProductFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// IDSource supplies cluster-unique identifiers.
type IDSource interface {
	NextID() int64
}

const topicCartUpdated = "cart:updated"

// Service owns the shopping-cart lifecycle: add lines, change
// quantities, keep the subtotal and total invariants. The unit price of
// a line is resolved from the buyer tier once, when the line is first
// added, and never re-resolved.
type Service struct {
	carts    Repository
	products ProductFinder
	vendors  VendorFinder
	ids      IDSource
	bus      EventBus.Bus
}

func NewService(carts Repository, products ProductFinder, vendors VendorFinder, ids IDSource, bus EventBus.Bus) *Service {
	return &Service{carts: carts, products: products, vendors: vendors, ids: ids, bus: bus}
}

func (s *Service) notify(mobile string) {
	if s.bus != nil {
		s.bus.Publish(topicCartUpdated, mobile)
	}
}

// AddItem puts one unit of a product pack size into the vendor's cart.
// A line matching (productID, sizeID) gains a unit instead of a
// duplicate line being appended. The cart is created lazily.
func (s *Service) AddItem(ctx context.Context, mobile string, productID, sizeID int64) (*domain.Cart, error) {
	var fields []domain.FieldError
	if productID == 0 {
		fields = append(fields, domain.FieldError{Field: "productId", Message: "Product ID is required"})
	}
	if sizeID == 0 {
		fields = append(fields, domain.FieldError{Field: "sizeId", Message: "Size ID is required"})
	}
	if len(fields) > 0 {
		return nil, domain.ErrValidation("Product ID and Size ID are required", fields...)
	}

	vendor, err := s.vendors.FindByMobile(ctx, mobile)
	if err != nil {
		return nil, domain.ErrInternal(err, "Failed to load user")
	}
	if vendor == nil {
		return nil, domain.ErrNotFound("User not found")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, domain.ErrInternal(err, "Failed to load product")
	}
	if product == nil {
		return nil, domain.ErrNotFound("Product not found")
	}
	size := product.FindPackSize(sizeID)
	if size == nil {
		return nil, domain.ErrNotFound("Size not found")
	}

	cart, err := s.carts.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, domain.ErrInternal(err, "Failed to load cart")
	}
	if cart == nil {
		cart = &domain.Cart{ID: s.ids.NextID(), Mobile: mobile}
	}

	if item := cart.FindItem(productID, sizeID); item != nil {
		// Price stays as stored at first add, even if the catalog
		// price changed since.
		item.Qty++
		item.UpdatedAt = time.Now()
	} else {
		price := size.PriceFor(vendor.Tier())
		cart.Items = append(cart.Items, domain.CartItem{
			ID:               s.ids.NextID(),
			CartID:           cart.ID,
			ProductID:        product.ID,
			ProductName:      product.ProductName,
			ProductMainImage: product.ProductMainImage,
			SizeID:           size.ID,
			Size:             size.Size,
			Qty:              1,
			Price:            price,
			Subtotal:         price,
		})
	}

	cart.Recalc()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, domain.ErrInternal(err, "Failed to save cart")
	}

	zap.L().Info("cart item added",
		zap.String("mobile", mobile),
		zap.Int64("product_id", productID),
		zap.Int64("size_id", sizeID))
	s.notify(mobile)
	return cart, nil
}

// Get returns the vendor's cart, or an empty one when none exists. The
// total is recomputed defensively but not written back.
func (s *Service) Get(ctx context.Context, mobile string) (*domain.Cart, error) {
	cart, err := s.carts.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, domain.ErrInternal(err, "Failed to load cart")
	}
	if cart == nil || len(cart.Items) == 0 {
		return &domain.Cart{Mobile: mobile, Items: []domain.CartItem{}}, nil
	}
	cart.Recalc()
	return cart, nil
}

// SetQuantity sets the quantity of the line matching (productID,
// sizeID) in the caller's cart. All input violations are collected and
// reported together.
func (s *Service) SetQuantity(ctx context.Context, mobile string, productID, sizeID int64, qty int) (*domain.Cart, error) {
	var fields []domain.FieldError
	if productID == 0 {
		fields = append(fields, domain.FieldError{Field: "productId", Message: "Product ID is required"})
	}
	if sizeID == 0 {
		fields = append(fields, domain.FieldError{Field: "sizeId", Message: "Size ID is required"})
	}
	if qty < 1 {
		fields = append(fields, domain.FieldError{Field: "qty", Message: "Quantity must be a positive integer"})
	}
	if len(fields) > 0 {
		return nil, domain.ErrValidation("Validation Error", fields...)
	}

	cart, err := s.carts.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, domain.ErrInternal(err, "Failed to load cart")
	}
	if cart == nil {
		return nil, domain.ErrNotFound("Product not found in cart")
	}
	item := cart.FindItem(productID, sizeID)
	if item == nil {
		return nil, domain.ErrNotFound("Product not found in cart")
	}

	item.Qty = qty
	item.UpdatedAt = time.Now()
	cart.Recalc()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, domain.ErrInternal(err, "Failed to save cart")
	}
	s.notify(mobile)
	return cart, nil
}

// Increment adds one unit to the line with the given id.
func (s *Service) Increment(ctx context.Context, mobile string, itemID int64) (*domain.Cart, error) {
	return s.adjust(ctx, mobile, itemID, +1)
}

// DecrementOrRemove takes one unit off the line with the given id,
// removing the line entirely when it holds a single unit. A line never
// reaches quantity zero.
func (s *Service) DecrementOrRemove(ctx context.Context, mobile string, itemID int64) (*domain.Cart, error) {
	return s.adjust(ctx, mobile, itemID, -1)
}

func (s *Service) adjust(ctx context.Context, mobile string, itemID int64, delta int) (*domain.Cart, error) {
	cart, err := s.carts.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, domain.ErrInternal(err, "Failed to load cart")
	}
	if cart == nil {
		return nil, domain.ErrNotFound("Product not found in cart")
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrNotFound("Product not found in cart")
	}

	if delta < 0 && cart.Items[idx].Qty <= 1 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Qty += delta
		cart.Items[idx].UpdatedAt = time.Now()
	}

	cart.Recalc()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, domain.ErrInternal(err, "Failed to save cart")
	}
	s.notify(mobile)
	return cart, nil
}

// RemoveItem deletes the line with the given id regardless of quantity.
func (s *Service) RemoveItem(ctx context.Context, mobile string, itemID int64) (*domain.Cart, error) {
	cart, err := s.carts.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, domain.ErrInternal(err, "Failed to load cart")
	}
	if cart == nil {
		return nil, domain.ErrNotFound("Product not found in cart")
	}

	kept := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.ID == itemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil, domain.ErrNotFound("Product not found in cart")
	}
	cart.Items = kept

	cart.Recalc()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, domain.ErrInternal(err, "Failed to save cart")
	}
	s.notify(mobile)
	return cart, nil
}
