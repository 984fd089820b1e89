package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

type WorkOrderRepo interface {
	// ListByYear returns the year's orders ordered by created_at so callers
	// indexing them get a stable duplicate tie-break. An empty orderType
	// means no type filter.
	ListByYear(ctx context.Context, tx *gorm.DB, year int, orderType types.OrderType) ([]*types.WorkOrder, error)
	Create(ctx context.Context, tx *gorm.DB, order *types.WorkOrder) error
	CreateBatch(ctx context.Context, tx *gorm.DB, orders []*types.WorkOrder) (int, error)
}

type workOrderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkOrderRepo(db *gorm.DB, baseLog *logger.Logger) WorkOrderRepo {
	repoLog := baseLog.With("repo", "WorkOrderRepo")
	return &workOrderRepo{db: db, log: repoLog}
}

func (r *workOrderRepo) ListByYear(ctx context.Context, tx *gorm.DB, year int, orderType types.OrderType) ([]*types.WorkOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	query := transaction.WithContext(ctx).
		Where("scheduled_date >= ? AND scheduled_date < ?", from, to)
	if orderType != "" {
		query = query.Where("order_type = ?", orderType)
	}

	var results []*types.WorkOrder
	if err := query.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *workOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *types.WorkOrder) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(order).Error; err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *workOrderRepo) CreateBatch(ctx context.Context, tx *gorm.DB, orders []*types.WorkOrder) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(orders) == 0 {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).Create(&orders).Error; err != nil {
		return 0, mapPgError(err)
	}
	return len(orders), nil
}
