package order

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendormart/vendormart/internal/cart"
	"github.com/vendormart/vendormart/internal/domain"
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

func newOrderService(t *testing.T) (*Service, cart.Repository, *seqIDs) {
	t.Helper()
	db := openTestDB(t)
	ids := &seqIDs{n: 5000}
	carts := cart.NewGormRepository(db)
	return NewService(NewGormRepository(db), carts, ids, nil), carts, ids
}

func seedCart(t *testing.T, carts cart.Repository, ids *seqIDs, mobile string) *domain.Cart {
	t.Helper()
	c := &domain.Cart{ID: ids.NextID(), Mobile: mobile}
	c.Items = []domain.CartItem{
		{ID: ids.NextID(), CartID: c.ID, ProductID: 1, ProductName: "Basmati Rice", SizeID: 11, Size: "1kg", Qty: 2, Price: 100},
		{ID: ids.NextID(), CartID: c.ID, ProductID: 2, ProductName: "Toor Dal", SizeID: 21, Size: "500g", Qty: 1, Price: 75},
	}
	c.Recalc()
	require.NoError(t, carts.Save(context.Background(), c))
	return c
}

func TestCreateRejectsEmptyCart(t *testing.T) {
	svc, _, _ := newOrderService(t)

	_, err := svc.Create(context.Background(), "9000000001", "")
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	assert.Equal(t, "Cart is empty. Cannot create order.", err.Error())
}

func TestCreateSnapshotsCartAndClearsIt(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	ctx := context.Background()
	mobile := "9000000001"
	seedCart(t, carts, ids, mobile)

	o, err := svc.Create(ctx, mobile, "")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, "N/A", o.Remark)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 275.0, o.Total)
	assert.Equal(t, 200.0, o.Items[0].Subtotal)

	// The cart row and its lines are gone in the same transaction.
	left, err := carts.GetByMobile(ctx, mobile)
	require.NoError(t, err)
	assert.Nil(t, left)
}

func TestCreateKeepsCallerRemark(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	seedCart(t, carts, ids, "9000000001")

	o, err := svc.Create(context.Background(), "9000000001", "deliver after 5pm")
	require.NoError(t, err)
	assert.Equal(t, "deliver after 5pm", o.Remark)
}

func TestCreateSecondOrderNeedsFreshCart(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	ctx := context.Background()
	seedCart(t, carts, ids, "9000000001")

	_, err := svc.Create(ctx, "9000000001", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "9000000001", "")
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
}

func seedOrders(t *testing.T, svc *Service, carts cart.Repository, ids *seqIDs, mobile string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		seedCart(t, carts, ids, mobile)
		_, err := svc.Create(context.Background(), mobile, "")
		require.NoError(t, err)
	}
}

func TestListPagination(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	ctx := context.Background()
	mobile := "9000000001"
	seedOrders(t, svc, carts, ids, mobile, 25)

	first, err := svc.List(ctx, mobile, Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, first.Docs, 10)
	assert.Equal(t, 25, first.TotalDocs)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 1, first.PagingCounter)
	assert.False(t, first.HasPrevPage)
	assert.True(t, first.HasNextPage)
	assert.Nil(t, first.PrevPage)
	require.NotNil(t, first.NextPage)
	assert.Equal(t, 2, *first.NextPage)

	last, err := svc.List(ctx, mobile, Query{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, last.Docs, 5)
	assert.Equal(t, 21, last.PagingCounter)
	assert.True(t, last.HasPrevPage)
	assert.False(t, last.HasNextPage)
	require.NotNil(t, last.PrevPage)
	assert.Equal(t, 2, *last.PrevPage)
	assert.Nil(t, last.NextPage)
}

func TestListBeyondLastPageIsEmpty(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	seedOrders(t, svc, carts, ids, "9000000001", 3)

	page, err := svc.List(context.Background(), "9000000001", Query{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Docs)
	assert.Equal(t, 3, page.TotalDocs)
}

func TestListStatusFilterIsCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	ids := &seqIDs{n: 5000}
	carts := cart.NewGormRepository(db)
	svc := NewService(NewGormRepository(db), carts, ids, nil)
	ctx := context.Background()
	mobile := "9000000001"

	seedOrders(t, svc, carts, ids, mobile, 3)
	var delivered domain.Order
	require.NoError(t, db.Where("mobile = ?", mobile).First(&delivered).Error)
	require.NoError(t, db.Model(&domain.Order{}).
		Where("id = ?", delivered.ID).
		Update("status", domain.OrderStatusDelivered).Error)

	page, err := svc.List(ctx, mobile, Query{Status: "pending", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalDocs)
	for _, o := range page.Docs {
		assert.Equal(t, domain.OrderStatusPending, o.Status)
	}

	page, err = svc.List(ctx, mobile, Query{Status: "DELIVERED", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalDocs)
	assert.Equal(t, delivered.ID, page.Docs[0].ID)

	page, err = svc.List(ctx, mobile, Query{Status: "Cancelled", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, page.TotalDocs)
}

func TestListKeywordMatchesOrderID(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	ctx := context.Background()
	mobile := "9000000001"

	seedCart(t, carts, ids, mobile)
	first, err := svc.Create(ctx, mobile, "")
	require.NoError(t, err)
	seedCart(t, carts, ids, mobile)
	_, err = svc.Create(ctx, mobile, "")
	require.NoError(t, err)

	page, err := svc.List(ctx, mobile, Query{Keyword: strconv.FormatInt(first.ID, 10), Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalDocs)
	assert.Equal(t, first.ID, page.Docs[0].ID)
}

func TestListKeywordMatchesProductName(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	ctx := context.Background()
	seedOrders(t, svc, carts, ids, "9000000001", 2)

	page, err := svc.List(ctx, "9000000001", Query{Keyword: "toor", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalDocs)

	page, err = svc.List(ctx, "9000000001", Query{Keyword: "sugar", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, page.TotalDocs)
}

func TestListIsScopedToMobile(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	seedOrders(t, svc, carts, ids, "9000000001", 2)

	page, err := svc.List(context.Background(), "9000000002", Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, page.TotalDocs)
}

func TestListDateFilter(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	seedOrders(t, svc, carts, ids, "9000000001", 2)

	past := time.Now().Add(-time.Hour)
	page, err := svc.List(context.Background(), "9000000001", Query{Page: 1, Limit: 10, To: &past})
	require.NoError(t, err)
	assert.Zero(t, page.TotalDocs)
}

func TestSummary(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	seedOrders(t, svc, carts, ids, "9000000001", 3)

	s, err := svc.Summary(context.Background(), "9000000001", Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Orders)
	assert.Equal(t, 825.0, s.Revenue)
	assert.Equal(t, 275.0, s.MeanTotal)
	assert.Equal(t, 275.0, s.MedianTotal)
}

func TestStatusCounts(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	seedOrders(t, svc, carts, ids, "9000000001", 2)

	counts, err := svc.StatusCounts(context.Background(), "9000000001")
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domain.OrderStatusPending])
	assert.Zero(t, counts[domain.OrderStatusDelivered])
}

func TestExportRowsFlattenLines(t *testing.T) {
	svc, carts, ids := newOrderService(t)
	seedOrders(t, svc, carts, ids, "9000000001", 2)

	rows, err := svc.ExportRows(context.Background(), "9000000001", Query{})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Basmati Rice", rows[0].ProductName)
	assert.Equal(t, 275.0, rows[0].OrderTotal)
}
