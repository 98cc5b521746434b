package order

import (
	"context"

	"github.com/vendormart/vendormart/internal/domain"
	"gorm.io/gorm"
)

// Repository handles order persistence.
type Repository interface {
	// CreateWithCartClear inserts the order snapshot and deletes the
	// source cart in one transaction. Either both happen or neither.
	CreateWithCartClear(ctx context.Context, order *domain.Order, cartID int64) error

	// ListByMobile retrieves a vendor's orders with lines, newest first
	ListByMobile(ctx context.Context, mobile string) ([]domain.Order, error)

	// CountByStatus returns order counts per status for one vendor
	CountByStatus(ctx context.Context, mobile string) (map[string]int64, error)
}

// GormRepository is the GORM implementation of Repository
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) CreateWithCartClear(ctx context.Context, order *domain.Order, cartID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Cart{}, cartID).Error
	})
}

func (r *GormRepository) ListByMobile(ctx context.Context, mobile string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("mobile = ?", mobile).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *GormRepository) CountByStatus(ctx context.Context, mobile string) (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("status, count(*) as n").
		Where("mobile = ?", mobile).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}
