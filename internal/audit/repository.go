package audit

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/catalogadmin/internal/domain"
	"gorm.io/gorm"
)

// OprLogRepository handles database operations for audit logs
type OprLogRepository interface {
	// Create inserts a new audit log entry
	Create(ctx context.Context, log *domain.SysOprLog) error

	// List returns one page of entries, newest first, and the total count
	List(ctx context.Context, page, pageSize int) ([]domain.SysOprLog, int64, error)

	// DeleteOlderThan removes entries older than the given number of days
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// GormOprLogRepository is the GORM implementation of OprLogRepository
type GormOprLogRepository struct {
	db *gorm.DB
}

// NewGormOprLogRepository creates a new GORM-based repository
func NewGormOprLogRepository(db *gorm.DB) *GormOprLogRepository {
	return &GormOprLogRepository{db: db}
}

func (r *GormOprLogRepository) Create(ctx context.Context, log *domain.SysOprLog) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(log).Error, "insert opr log")
}

func (r *GormOprLogRepository) List(ctx context.Context, page, pageSize int) ([]domain.SysOprLog, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.SysOprLog{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count opr logs")
	}

	logs := make([]domain.SysOprLog, 0)
	err := base.Order("opt_time DESC").Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "query opr logs")
	}
	return logs, total, nil
}

func (r *GormOprLogRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	res := r.db.WithContext(ctx).Where("opt_time < ?", cutoff).Delete(&domain.SysOprLog{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "purge opr logs")
	}
	return res.RowsAffected, nil
}
