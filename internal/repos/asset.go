package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

type AssetRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*types.Asset, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Asset, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Asset, error)
}

type assetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetRepo(db *gorm.DB, baseLog *logger.Logger) AssetRepo {
	repoLog := baseLog.With("repo", "AssetRepo")
	return &assetRepo{db: db, log: repoLog}
}

func (r *assetRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Asset
	if err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Order("location ASC, code ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assetRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Asset
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assetRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Asset
	if err := transaction.WithContext(ctx).
		Where("code = ?", code).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}
