package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/vendormart/vendormart/internal/domain"
	"gorm.io/gorm"
)

// ProductRepository handles catalog data access.
type ProductRepository interface {
	// GetByID retrieves a product with its pack sizes
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// List retrieves products whose name or slug contains the keyword
	List(ctx context.Context, keyword string) ([]domain.Product, error)

	// Create inserts a product with its pack sizes
	Create(ctx context.Context, p *domain.Product) error

	// Update saves a product and replaces its pack sizes
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product and its pack sizes
	Delete(ctx context.Context, id int64) error
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Preload("AvailablePackSizes").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) List(ctx context.Context, keyword string) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Preload("AvailablePackSizes")
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		like := "%" + strings.ToLower(keyword) + "%"
		q = q.Where("LOWER(product_name) LIKE ? OR LOWER(slug) LIKE ?", like, like)
	}
	var products []domain.Product
	err := q.Order("id DESC").Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormProductRepository) Update(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("AvailablePackSizes").Save(p).Error; err != nil {
			return err
		}
		keep := make([]int64, 0, len(p.AvailablePackSizes))
		for i := range p.AvailablePackSizes {
			p.AvailablePackSizes[i].ProductID = p.ID
			if err := tx.Save(&p.AvailablePackSizes[i]).Error; err != nil {
				return err
			}
			keep = append(keep, p.AvailablePackSizes[i].ID)
		}
		q := tx.Where("product_id = ?", p.ID)
		if len(keep) > 0 {
			q = q.Where("id NOT IN ?", keep)
		}
		return q.Delete(&domain.PackSize{}).Error
	})
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.PackSize{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Product{}, id).Error
	})
}
