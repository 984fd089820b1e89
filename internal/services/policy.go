package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vbarroso/manutencao-backend/internal/cache"
	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/planning"
	"github.com/vbarroso/manutencao-backend/internal/repos"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

const scheduledWeeksPerYear = 12
const deepWeeksPerYear = 2

type UpsertPolicyInput struct {
	Location       string `json:"location"`
	Year           int    `json:"year"`
	ScheduledWeeks []int  `json:"scheduled_weeks"`
	DeepWeeks      []int  `json:"deep_weeks"`
	Notes          string `json:"notes"`
	Author         string `json:"author"`
}

type PolicyService interface {
	ListActive(ctx context.Context, year int) ([]*types.SchedulePolicy, error)
	Upsert(ctx context.Context, in UpsertPolicyInput) (*types.SchedulePolicy, error)
}

type policyService struct {
	db         *gorm.DB
	log        *logger.Logger
	policyRepo repos.SchedulePolicyRepo
	cache      cache.Cache
}

func NewPolicyService(db *gorm.DB, log *logger.Logger, policyRepo repos.SchedulePolicyRepo, c cache.Cache) PolicyService {
	serviceLog := log.With("service", "PolicyService")
	return &policyService{db: db, log: serviceLog, policyRepo: policyRepo, cache: c}
}

func (s *policyService) ListActive(ctx context.Context, year int) ([]*types.SchedulePolicy, error) {
	return s.policyRepo.ListActive(ctx, nil, year)
}

func validatePolicyInput(in UpsertPolicyInput) error {
	if in.Location == "" {
		return fmt.Errorf("%w: location required", apperrors.ErrValidation)
	}
	if len(in.ScheduledWeeks) != scheduledWeeksPerYear {
		return fmt.Errorf("%w: expected %d scheduled weeks, got %d", apperrors.ErrValidation, scheduledWeeksPerYear, len(in.ScheduledWeeks))
	}
	if len(in.DeepWeeks) != deepWeeksPerYear {
		return fmt.Errorf("%w: expected %d deep weeks, got %d", apperrors.ErrValidation, deepWeeksPerYear, len(in.DeepWeeks))
	}
	seen := make(map[int]bool, len(in.ScheduledWeeks))
	for _, w := range in.ScheduledWeeks {
		if w < 0 || w >= planning.WeeksPerYear {
			return fmt.Errorf("%w: week %d out of range", apperrors.ErrValidation, w)
		}
		if seen[w] {
			return fmt.Errorf("%w: week %d repeated", apperrors.ErrValidation, w)
		}
		seen[w] = true
	}
	for _, w := range in.DeepWeeks {
		if !seen[w] {
			return fmt.Errorf("%w: deep week %d is not among the scheduled weeks", apperrors.ErrValidation, w)
		}
	}
	if in.DeepWeeks[0] == in.DeepWeeks[1] {
		return fmt.Errorf("%w: deep week %d repeated", apperrors.ErrValidation, in.DeepWeeks[0])
	}
	return nil
}

// Upsert replaces the location's programming for the year. The previous
// active policy is deactivated, never deleted, so the history of who
// programmed what survives.
func (s *policyService) Upsert(ctx context.Context, in UpsertPolicyInput) (*types.SchedulePolicy, error) {
	if err := validatePolicyInput(in); err != nil {
		return nil, err
	}

	policy := &types.SchedulePolicy{
		Location:       in.Location,
		Year:           in.Year,
		ScheduledWeeks: in.ScheduledWeeks,
		DeepWeeks:      in.DeepWeeks,
		Notes:          in.Notes,
		Active:         true,
		CreatedBy:      in.Author,
	}

	replace := func(tx *gorm.DB) error {
		current, err := s.policyRepo.ListActive(ctx, tx, in.Year)
		if err != nil {
			return fmt.Errorf("load active policies: %w", err)
		}
		for _, p := range current {
			if p.Location != in.Location {
				continue
			}
			if err := s.policyRepo.Deactivate(ctx, tx, p.ID); err != nil {
				return fmt.Errorf("deactivate policy %s: %w", p.ID, err)
			}
		}
		if err := s.policyRepo.Insert(ctx, tx, policy); err != nil {
			return fmt.Errorf("insert policy: %w", err)
		}
		return nil
	}

	// The fallback repo ignores the transaction handle, so running without a
	// postgres connection is still coherent.
	var err error
	if s.db != nil {
		err = s.db.WithContext(ctx).Transaction(replace)
	} else {
		err = replace(nil)
	}
	if err != nil {
		s.log.Warn("Policy upsert failed", "location", in.Location, "year", in.Year, "error", err)
		return nil, err
	}

	s.cache.Invalidate(ctx, cacheKeyPolicies(in.Year))
	s.log.Info("Policy replaced", "location", in.Location, "year", in.Year, "policy_id", policy.ID)
	return policy, nil
}
