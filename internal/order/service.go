package order

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/montanaflynn/stats"
	"github.com/vendormart/vendormart/internal/cart"
	"github.com/vendormart/vendormart/internal/domain"
	"go.uber.org/zap"
)

const topicOrderCreated = "order:created"

// Query filters and paginates a vendor's order listing.
type Query struct {
	Keyword string
	Status  string
	Page    int
	Limit   int
	From    *time.Time
	To      *time.Time
}

// Page is the listing envelope. PrevPage and NextPage are null when
// there is no such page.
type Page struct {
	Docs          []domain.Order `json:"docs"`
	TotalDocs     int            `json:"totalDocs"`
	Limit         int            `json:"limit"`
	Page          int            `json:"page"`
	TotalPages    int            `json:"totalPages"`
	PagingCounter int            `json:"pagingCounter"`
	HasPrevPage   bool           `json:"hasPrevPage"`
	HasNextPage   bool           `json:"hasNextPage"`
	PrevPage      *int           `json:"prevPage"`
	NextPage      *int           `json:"nextPage"`
}

// Stats summarizes a vendor's order history.
type Stats struct {
	Orders      int     `json:"orders"`
	Revenue     float64 `json:"revenue"`
	MeanTotal   float64 `json:"meanTotal"`
	MedianTotal float64 `json:"medianTotal"`
}

// ExportRow is one flattened order line for CSV/Excel export.
type ExportRow struct {
	OrderID     string  `csv:"order_id"`
	Status      string  `csv:"status"`
	CreatedAt   string  `csv:"created_at"`
	Remark      string  `csv:"remark"`
	ProductName string  `csv:"product_name"`
	Size        string  `csv:"size"`
	Qty         int     `csv:"qty"`
	Price       float64 `csv:"price"`
	Subtotal    float64 `csv:"subtotal"`
	OrderTotal  float64 `csv:"order_total"`
}

// Service owns the cart-to-order transition and order retrieval.
type Service struct {
	orders Repository
	carts  cart.Repository
	ids    cart.IDSource
	bus    EventBus.Bus
}

func NewService(orders Repository, carts cart.Repository, ids cart.IDSource, bus EventBus.Bus) *Service {
	return &Service{orders: orders, carts: carts, ids: ids, bus: bus}
}

// Create snapshots the vendor's cart into an immutable Pending order
// and clears the cart. Insert and clear share one transaction. The
// total is recomputed from the line subtotals, never trusted from the
// stored cart field.
func (s *Service) Create(ctx context.Context, mobile, remark string) (*domain.Order, error) {
	userCart, err := s.carts.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, domain.ErrInternal(err, "Failed to load cart")
	}
	if userCart == nil || len(userCart.Items) == 0 {
		return nil, domain.ErrInvalidState("Cart is empty. Cannot create order.")
	}

	if remark == "" {
		remark = "N/A"
	}

	now := time.Now()
	order := &domain.Order{
		ID:        s.ids.NextID(),
		Mobile:    mobile,
		Remark:    remark,
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	total := 0.0
	for _, item := range userCart.Items {
		total += item.Subtotal
		order.Items = append(order.Items, domain.OrderItem{
			ID:               s.ids.NextID(),
			OrderID:          order.ID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			ProductMainImage: item.ProductMainImage,
			SizeID:           item.SizeID,
			Size:             item.Size,
			Qty:              item.Qty,
			Price:            item.Price,
			Subtotal:         item.Subtotal,
			CreatedAt:        now,
		})
	}
	order.Total = total

	if err := s.orders.CreateWithCartClear(ctx, order, userCart.ID); err != nil {
		return nil, domain.ErrInternal(err, "Failed to create order")
	}

	zap.L().Info("order created",
		zap.Int64("order_id", order.ID),
		zap.String("mobile", mobile),
		zap.Float64("total", order.Total))
	if s.bus != nil {
		s.bus.Publish(topicOrderCreated, order)
	}
	return order, nil
}

func matches(o *domain.Order, keyword string) bool {
	if strings.Contains(strconv.FormatInt(o.ID, 10), keyword) {
		return true
	}
	lower := strings.ToLower(keyword)
	for _, item := range o.Items {
		if strings.Contains(strings.ToLower(item.ProductName), lower) {
			return true
		}
	}
	return false
}

func (s *Service) filtered(ctx context.Context, mobile string, q Query) ([]domain.Order, error) {
	orders, err := s.orders.ListByMobile(ctx, mobile)
	if err != nil {
		return nil, domain.ErrInternal(err, "Failed to load orders")
	}

	out := orders[:0]
	for i := range orders {
		o := orders[i]
		if q.Status != "" && !strings.EqualFold(o.Status, q.Status) {
			continue
		}
		if q.Keyword != "" && !matches(&o, q.Keyword) {
			continue
		}
		if q.From != nil && o.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && o.CreatedAt.After(*q.To) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// List returns one page of the vendor's orders, newest first.
func (s *Service) List(ctx context.Context, mobile string, q Query) (*Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	orders, err := s.filtered(ctx, mobile, q)
	if err != nil {
		return nil, err
	}

	totalDocs := len(orders)
	totalPages := int(math.Ceil(float64(totalDocs) / float64(q.Limit)))
	start := (q.Page - 1) * q.Limit
	end := start + q.Limit
	if start > totalDocs {
		start = totalDocs
	}
	if end > totalDocs {
		end = totalDocs
	}

	page := &Page{
		Docs:          orders[start:end],
		TotalDocs:     totalDocs,
		Limit:         q.Limit,
		Page:          q.Page,
		TotalPages:    totalPages,
		PagingCounter: (q.Page-1)*q.Limit + 1,
		HasPrevPage:   q.Page > 1,
		HasNextPage:   (q.Page-1)*q.Limit+q.Limit < totalDocs,
	}
	if page.Docs == nil {
		page.Docs = []domain.Order{}
	}
	if page.HasPrevPage {
		prev := q.Page - 1
		page.PrevPage = &prev
	}
	if page.HasNextPage {
		next := q.Page + 1
		page.NextPage = &next
	}
	return page, nil
}

// StatusCounts returns the per-status order counters shown on the
// vendor profile.
func (s *Service) StatusCounts(ctx context.Context, mobile string) (map[string]int64, error) {
	counts, err := s.orders.CountByStatus(ctx, mobile)
	if err != nil {
		return nil, domain.ErrInternal(err, "Failed to count orders")
	}
	return counts, nil
}

// Summary computes order count, revenue and mean/median order value.
func (s *Service) Summary(ctx context.Context, mobile string, q Query) (*Stats, error) {
	orders, err := s.filtered(ctx, mobile, q)
	if err != nil {
		return nil, err
	}

	out := &Stats{Orders: len(orders)}
	if len(orders) == 0 {
		return out, nil
	}
	totals := make([]float64, 0, len(orders))
	for _, o := range orders {
		out.Revenue += o.Total
		totals = append(totals, o.Total)
	}
	if mean, err := stats.Mean(totals); err == nil {
		out.MeanTotal = mean
	}
	if median, err := stats.Median(totals); err == nil {
		out.MedianTotal = median
	}
	return out, nil
}

// ExportRows flattens the vendor's filtered orders to one row per line.
func (s *Service) ExportRows(ctx context.Context, mobile string, q Query) ([]ExportRow, error) {
	orders, err := s.filtered(ctx, mobile, q)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(orders))
	for _, o := range orders {
		for _, item := range o.Items {
			rows = append(rows, ExportRow{
				OrderID:     strconv.FormatInt(o.ID, 10),
				Status:      o.Status,
				CreatedAt:   o.CreatedAt.Format(time.RFC3339),
				Remark:      o.Remark,
				ProductName: item.ProductName,
				Size:        item.Size,
				Qty:         item.Qty,
				Price:       item.Price,
				Subtotal:    item.Subtotal,
				OrderTotal:  o.Total,
			})
		}
	}
	return rows, nil
}
