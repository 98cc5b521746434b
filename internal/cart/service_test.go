package cart

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendormart/vendormart/internal/catalog"
	"github.com/vendormart/vendormart/internal/domain"
	"github.com/vendormart/vendormart/internal/vendor"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type seqIDs struct{ n int64 }

func (s *seqIDs) NextID() int64 {
	s.n++
	return s.n
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().AutoMigrate(domain.Tables...))
	return db
}

type fixture struct {
	svc      *Service
	carts    Repository
	db       *gorm.DB
	retailer *domain.Vendor
	salesman *domain.Vendor
	product  *domain.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)
	ids := &seqIDs{n: 1000}

	retailer := &domain.Vendor{ID: ids.NextID(), VendorName: "Asha Traders", Mobile: "9000000001", Verified: true}
	salesman := &domain.Vendor{ID: ids.NextID(), VendorName: "Bulk Mart", Mobile: "9000000002", Salesman: true, Verified: true}
	require.NoError(t, db.Create(retailer).Error)
	require.NoError(t, db.Create(salesman).Error)

	product := &domain.Product{
		ID:          ids.NextID(),
		ProductName: "Basmati Rice",
		Slug:        "basmati-rice",
		Status:      "active",
		AvailablePackSizes: []domain.PackSize{
			{ID: ids.NextID(), Size: "1kg", PriceForWholesaler: 80, PriceForRetailer: 100},
			{ID: ids.NextID(), Size: "5kg", PriceForWholesaler: 380, PriceForRetailer: 450},
		},
	}
	require.NoError(t, db.Create(product).Error)

	carts := NewGormRepository(db)
	svc := NewService(carts, catalog.NewGormProductRepository(db), vendor.NewGormRepository(db), ids, nil)
	return &fixture{svc: svc, carts: carts, db: db, retailer: retailer, salesman: salesman, product: product}
}

func (f *fixture) sizeID(i int) int64 { return f.product.AvailablePackSizes[i].ID }

func TestAddItemCreatesLineWithTierPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0))
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Items[0].Qty)
	assert.Equal(t, 100.0, got.Items[0].Price)
	assert.Equal(t, 100.0, got.Items[0].Subtotal)
	assert.Equal(t, 100.0, got.Total)

	got, err = f.svc.AddItem(ctx, f.salesman.Mobile, f.product.ID, f.sizeID(0))
	require.NoError(t, err)
	assert.Equal(t, 80.0, got.Items[0].Price)
}

func TestAddItemMergesDuplicateLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0))
	require.NoError(t, err)
	got, err := f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0))
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Qty)
	assert.Equal(t, 200.0, got.Items[0].Subtotal)
	assert.Equal(t, 200.0, got.Total)
}

func TestAddItemDistinctSizesAreSeparateLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0))
	require.NoError(t, err)
	got, err := f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(1))
	require.NoError(t, err)

	require.Len(t, got.Items, 2)
	assert.Equal(t, 550.0, got.Total)
}

func TestAddItemUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "9999999999", f.product.ID, f.sizeID(0))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = f.svc.AddItem(ctx, f.retailer.Mobile, 42, f.sizeID(0))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, 42)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = f.svc.AddItem(ctx, f.retailer.Mobile, 0, 0)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Len(t, domain.FieldsOf(err), 2)
}

func TestIncrementAccumulatesSubtotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0))
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	_, err = f.svc.Increment(ctx, f.retailer.Mobile, itemID)
	require.NoError(t, err)
	cart, err = f.svc.Increment(ctx, f.retailer.Mobile, itemID)
	require.NoError(t, err)

	assert.Equal(t, 3, cart.Items[0].Qty)
	assert.Equal(t, 300.0, cart.Items[0].Subtotal)
	assert.Equal(t, 300.0, cart.Total)
}

func TestDecrementRemovesLineAtSingleUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0))
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = f.svc.DecrementOrRemove(ctx, f.retailer.Mobile, itemID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Total)

	stored, err := f.carts.GetByMobile(ctx, f.retailer.Mobile)
	require.NoError(t, err)
	assert.Empty(t, stored.Items)
}

func TestDecrementAboveOneKeepsLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0))
	require.NoError(t, err)
	itemID := cart.Items[0].ID
	_, err = f.svc.Increment(ctx, f.retailer.Mobile, itemID)
	require.NoError(t, err)

	cart, err = f.svc.DecrementOrRemove(ctx, f.retailer.Mobile, itemID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Qty)
	assert.Equal(t, 100.0, cart.Total)
}

func TestSetQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0))
	require.NoError(t, err)

	cart, err := f.svc.SetQuantity(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Qty)
	assert.Equal(t, 700.0, cart.Total)
}

func TestSetQuantityCollectsViolations(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SetQuantity(context.Background(), f.retailer.Mobile, 0, 0, 0)
	require.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Len(t, domain.FieldsOf(err), 3)
}

func TestSetQuantityScopedToOwnCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0))
	require.NoError(t, err)

	// The salesman has no such line; the retailer's cart must not be
	// reachable through another caller's session.
	_, err = f.svc.SetQuantity(ctx, f.salesman.Mobile, f.product.ID, f.sizeID(0), 5)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	stored, err := f.carts.GetByMobile(ctx, f.retailer.Mobile)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Qty)
}

func TestRemoveItemDeletesRegardlessOfQty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.svc.AddItem(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0))
	require.NoError(t, err)
	itemID := cart.Items[0].ID
	_, err = f.svc.SetQuantity(ctx, f.retailer.Mobile, f.product.ID, f.sizeID(0), 9)
	require.NoError(t, err)

	cart, err = f.svc.RemoveItem(ctx, f.retailer.Mobile, itemID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Total)
}

func TestGetReturnsEmptyCartWhenAbsent(t *testing.T) {
	f := newFixture(t)

	cart, err := f.svc.Get(context.Background(), f.retailer.Mobile)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Total)
}

func TestRecalcRestoresInvariants(t *testing.T) {
	cart := &domain.Cart{
		Items: []domain.CartItem{
			{Qty: 3, Price: 10, Subtotal: 999},
			{Qty: 2, Price: 25.5, Subtotal: 0},
		},
		Total: -1,
	}
	cart.Recalc()
	assert.Equal(t, 30.0, cart.Items[0].Subtotal)
	assert.Equal(t, 51.0, cart.Items[1].Subtotal)
	assert.Equal(t, 81.0, cart.Total)
}
