package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

// policyStorageKey is the single key under which the offline cache keeps the
// whole policy set, as an opaque JSON blob.
const policyStorageKey = "manutencao.schedule_policies"

type localKVRecord struct {
	Key       string         `gorm:"column:key;primaryKey"`
	Value     datatypes.JSON `gorm:"column:value"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (localKVRecord) TableName() string { return "local_kv" }

type localSchedulePolicyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewLocalSchedulePolicyRepo builds the sqlite-backed policy cache. The tx
// argument of the interface is accepted but ignored: the local file is not
// part of any postgres transaction.
func NewLocalSchedulePolicyRepo(db *gorm.DB, baseLog *logger.Logger) (SchedulePolicyRepo, error) {
	if err := db.AutoMigrate(&localKVRecord{}); err != nil {
		return nil, fmt.Errorf("migrate local policy cache: %w", err)
	}
	repoLog := baseLog.With("repo", "LocalSchedulePolicyRepo")
	return &localSchedulePolicyRepo{db: db, log: repoLog}, nil
}

func (r *localSchedulePolicyRepo) load(ctx context.Context) ([]*types.SchedulePolicy, error) {
	var record localKVRecord
	err := r.db.WithContext(ctx).
		Where("key = ?", policyStorageKey).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var policies []*types.SchedulePolicy
	if err := json.Unmarshal(record.Value, &policies); err != nil {
		return nil, fmt.Errorf("corrupt local policy blob: %w", err)
	}
	return policies, nil
}

func (r *localSchedulePolicyRepo) save(ctx context.Context, policies []*types.SchedulePolicy) error {
	blob, err := json.Marshal(policies)
	if err != nil {
		return err
	}
	record := localKVRecord{
		Key:       policyStorageKey,
		Value:     datatypes.JSON(blob),
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Save(&record).Error
}

func (r *localSchedulePolicyRepo) ListActive(ctx context.Context, _ *gorm.DB, year int) ([]*types.SchedulePolicy, error) {
	policies, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	var results []*types.SchedulePolicy
	for _, p := range policies {
		if p.Year == year && p.Active {
			results = append(results, p)
		}
	}
	return results, nil
}

func (r *localSchedulePolicyRepo) Insert(ctx context.Context, _ *gorm.DB, policy *types.SchedulePolicy) error {
	policies, err := r.load(ctx)
	if err != nil {
		return err
	}
	if policy.ID == uuid.Nil {
		policy.ID = uuid.New()
	}
	now := time.Now().UTC()
	policy.CreatedAt = now
	policy.UpdatedAt = now
	policies = append(policies, policy)
	return r.save(ctx, policies)
}

func (r *localSchedulePolicyRepo) Deactivate(ctx context.Context, _ *gorm.DB, id uuid.UUID) error {
	policies, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, p := range policies {
		if p.ID == id {
			p.Active = false
			p.UpdatedAt = time.Now().UTC()
		}
	}
	return r.save(ctx, policies)
}
