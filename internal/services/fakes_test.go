package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

type fakeAssetRepo struct {
	assets    []*types.Asset
	listCalls int
}

func (f *fakeAssetRepo) List(_ context.Context, _ *gorm.DB) ([]*types.Asset, error) {
	f.listCalls++
	var out []*types.Asset
	for _, a := range f.assets {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssetRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Asset, error) {
	var out []*types.Asset
	for _, a := range f.assets {
		for _, id := range ids {
			if a.ID == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (f *fakeAssetRepo) GetByCode(_ context.Context, _ *gorm.DB, code string) (*types.Asset, error) {
	for _, a := range f.assets {
		if a.Code == code {
			return a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

type fakeWorkOrderRepo struct {
	orders            []*types.WorkOrder
	listCalls         int
	batchSizes        []int
	duplicateFailures int
	insertErr         error
}

func (f *fakeWorkOrderRepo) ListByYear(_ context.Context, _ *gorm.DB, year int, orderType types.OrderType) ([]*types.WorkOrder, error) {
	f.listCalls++
	var out []*types.WorkOrder
	for _, o := range f.orders {
		if o.ScheduledDate.Year() != year {
			continue
		}
		if orderType != "" && o.OrderType != orderType {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeWorkOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *types.WorkOrder) error {
	_, err := f.CreateBatch(ctx, tx, []*types.WorkOrder{order})
	return err
}

func (f *fakeWorkOrderRepo) CreateBatch(_ context.Context, _ *gorm.DB, orders []*types.WorkOrder) (int, error) {
	if len(orders) == 0 {
		return 0, nil
	}
	if f.duplicateFailures > 0 {
		f.duplicateFailures--
		return 0, fmt.Errorf("%w: work_order_order_number_key", apperrors.ErrDuplicateKey)
	}
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.batchSizes = append(f.batchSizes, len(orders))
	for _, o := range orders {
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		f.orders = append(f.orders, o)
	}
	return len(orders), nil
}

type fakePolicyRepo struct {
	policies []*types.SchedulePolicy
	listErr  error
}

func (f *fakePolicyRepo) ListActive(_ context.Context, _ *gorm.DB, year int) ([]*types.SchedulePolicy, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*types.SchedulePolicy
	for _, p := range f.policies {
		if p.Year == year && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePolicyRepo) Insert(_ context.Context, _ *gorm.DB, policy *types.SchedulePolicy) error {
	if policy.ID == uuid.Nil {
		policy.ID = uuid.New()
	}
	f.policies = append(f.policies, policy)
	return nil
}

func (f *fakePolicyRepo) Deactivate(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	for _, p := range f.policies {
		if p.ID == id {
			p.Active = false
		}
	}
	return nil
}
