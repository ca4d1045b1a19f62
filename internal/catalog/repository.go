package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/catalogadmin/internal/domain"
	"gorm.io/gorm"
)

// ProductRepository is the product store. Mutations report the number of
// affected rows so callers can detect rows removed concurrently.
type ProductRepository interface {
	// Create inserts a product and fills in its id
	Create(ctx context.Context, p *domain.Product) error

	// List returns every product, newest first
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID returns gorm.ErrRecordNotFound (wrapped) when the row is absent
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Update writes the given columns of one product
	Update(ctx context.Context, id int64, fields map[string]interface{}) (int64, error)

	// Delete removes one product
	Delete(ctx context.Context, id int64) (int64, error)

	// FindRefs returns {id, name} for the ids that exist
	FindRefs(ctx context.Context, ids []int64) ([]domain.ProductRef, error)

	// DeleteByIDs removes all products whose id is in ids
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)

	// Search matches q as a substring of name or description
	Search(ctx context.Context, q string, limit, offset int) ([]domain.Product, int64, error)
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(p).Error, "insert product")
}

func (r *GormProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&products).Error
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, errors.Wrapf(err, "query product %d", id)
	}
	return &p, nil
}

func (r *GormProductRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "update product %d", id)
	}
	return res.RowsAffected, nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "delete product %d", id)
	}
	return res.RowsAffected, nil
}

func (r *GormProductRepository) FindRefs(ctx context.Context, ids []int64) ([]domain.ProductRef, error) {
	refs := make([]domain.ProductRef, 0, len(ids))
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Select("id", "name").
		Where("id IN ?", ids).
		Order("id ASC").
		Scan(&refs).Error
	if err != nil {
		return nil, errors.Wrap(err, "query products by ids")
	}
	return refs, nil
}

func (r *GormProductRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Product{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "bulk delete products")
	}
	return res.RowsAffected, nil
}

func (r *GormProductRepository) Search(ctx context.Context, q string, limit, offset int) ([]domain.Product, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.Product{})
	if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
		db = db.Where("name ILIKE ? OR description ILIKE ?", "%"+q+"%", "%"+q+"%")
	} else {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count product search")
	}

	products := make([]domain.Product, 0)
	err := db.Order("created_at DESC").Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "query product search")
	}
	return products, total, nil
}
