package cart

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vendormart/vendormart/internal/domain"
	"gorm.io/gorm"
)

// Repository handles cart persistence. Save writes the in-memory cart
// back as a unit: the cart row, every surviving line, and the deletion
// of lines no longer present, all in one transaction.
type Repository interface {
	// GetByMobile retrieves a vendor's cart with its lines, nil when absent
	GetByMobile(ctx context.Context, mobile string) (*domain.Cart, error)

	// Save upserts the cart row and reconciles its lines
	Save(ctx context.Context, cart *domain.Cart) error
}

// GormRepository is the GORM implementation of Repository
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetByMobile(ctx context.Context, mobile string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).Preload("Items").Where("mobile = ?", mobile).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepository) Save(ctx context.Context, cart *domain.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(cart).Error; err != nil {
			return err
		}
		keep := make([]int64, 0, len(cart.Items))
		for i := range cart.Items {
			cart.Items[i].CartID = cart.ID
			if err := tx.Save(&cart.Items[i]).Error; err != nil {
				return err
			}
			keep = append(keep, cart.Items[i].ID)
		}
		q := tx.Where("cart_id = ?", cart.ID)
		if len(keep) > 0 {
			q = q.Where("id NOT IN ?", keep)
		}
		return q.Delete(&domain.CartItem{}).Error
	})
}
