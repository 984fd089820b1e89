package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

// SchedulePolicyRepo is the store behind location programming. Two
// implementations exist: the primary postgres one and a sqlite local cache
// used when the primary schema is unavailable; the failover wrapper picks
// between them so callers never branch on which backend served them.
type SchedulePolicyRepo interface {
	ListActive(ctx context.Context, tx *gorm.DB, year int) ([]*types.SchedulePolicy, error)
	Insert(ctx context.Context, tx *gorm.DB, policy *types.SchedulePolicy) error
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type schedulePolicyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSchedulePolicyRepo(db *gorm.DB, baseLog *logger.Logger) SchedulePolicyRepo {
	repoLog := baseLog.With("repo", "SchedulePolicyRepo")
	return &schedulePolicyRepo{db: db, log: repoLog}
}

func (r *schedulePolicyRepo) ListActive(ctx context.Context, tx *gorm.DB, year int) ([]*types.SchedulePolicy, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SchedulePolicy
	if err := transaction.WithContext(ctx).
		Where("year = ? AND active = ?", year, true).
		Order("location ASC").
		Find(&results).Error; err != nil {
		return nil, mapPgError(err)
	}
	return results, nil
}

func (r *schedulePolicyRepo) Insert(ctx context.Context, tx *gorm.DB, policy *types.SchedulePolicy) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(policy).Error; err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *schedulePolicyRepo) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.SchedulePolicy{}).
		Where("id = ?", id).
		Update("active", false).Error; err != nil {
		return mapPgError(err)
	}
	return nil
}
