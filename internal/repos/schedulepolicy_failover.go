package repos

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

// failoverSchedulePolicyRepo serves from the primary store until it reports
// ErrSchemaUnavailable, then sticks to the local cache for the rest of the
// process. Callers never see which backend answered.
type failoverSchedulePolicyRepo struct {
	log      *logger.Logger
	primary  SchedulePolicyRepo
	fallback SchedulePolicyRepo
	offline  atomic.Bool
}

func NewFailoverSchedulePolicyRepo(primary, fallback SchedulePolicyRepo, baseLog *logger.Logger) SchedulePolicyRepo {
	repoLog := baseLog.With("repo", "FailoverSchedulePolicyRepo")
	return &failoverSchedulePolicyRepo{log: repoLog, primary: primary, fallback: fallback}
}

func (r *failoverSchedulePolicyRepo) failed(err error) bool {
	if !errors.Is(err, apperrors.ErrSchemaUnavailable) {
		return false
	}
	if r.offline.CompareAndSwap(false, true) {
		r.log.Warn("Primary policy store schema unavailable, switching to local cache", "error", err)
	}
	return true
}

func (r *failoverSchedulePolicyRepo) ListActive(ctx context.Context, tx *gorm.DB, year int) ([]*types.SchedulePolicy, error) {
	if r.offline.Load() {
		return r.fallback.ListActive(ctx, nil, year)
	}
	results, err := r.primary.ListActive(ctx, tx, year)
	if r.failed(err) {
		return r.fallback.ListActive(ctx, nil, year)
	}
	return results, err
}

func (r *failoverSchedulePolicyRepo) Insert(ctx context.Context, tx *gorm.DB, policy *types.SchedulePolicy) error {
	if r.offline.Load() {
		return r.fallback.Insert(ctx, nil, policy)
	}
	err := r.primary.Insert(ctx, tx, policy)
	if r.failed(err) {
		return r.fallback.Insert(ctx, nil, policy)
	}
	return err
}

func (r *failoverSchedulePolicyRepo) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if r.offline.Load() {
		return r.fallback.Deactivate(ctx, nil, id)
	}
	err := r.primary.Deactivate(ctx, tx, id)
	if r.failed(err) {
		return r.fallback.Deactivate(ctx, nil, id)
	}
	return err
}
