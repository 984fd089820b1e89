package repos

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

type stubPolicyRepo struct {
	policies  []*types.SchedulePolicy
	err       error
	listCalls int
}

func (s *stubPolicyRepo) ListActive(_ context.Context, _ *gorm.DB, year int) ([]*types.SchedulePolicy, error) {
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	var out []*types.SchedulePolicy
	for _, p := range s.policies {
		if p.Year == year && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPolicyRepo) Insert(_ context.Context, _ *gorm.DB, policy *types.SchedulePolicy) error {
	if s.err != nil {
		return s.err
	}
	if policy.ID == uuid.Nil {
		policy.ID = uuid.New()
	}
	s.policies = append(s.policies, policy)
	return nil
}

func (s *stubPolicyRepo) Deactivate(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	for _, p := range s.policies {
		if p.ID == id {
			p.Active = false
		}
	}
	return nil
}

func somePolicy(location string, year int) *types.SchedulePolicy {
	return &types.SchedulePolicy{
		ID:             uuid.New(),
		Location:       location,
		Year:           year,
		ScheduledWeeks: []int{0, 3, 7, 11, 15, 19, 23, 26, 30, 34, 38, 42},
		DeepWeeks:      []int{0, 26},
		Active:         true,
	}
}

func TestFailoverServesPrimaryWhileHealthy(t *testing.T) {
	primary := &stubPolicyRepo{policies: []*types.SchedulePolicy{somePolicy("Building A", 2026)}}
	fallback := &stubPolicyRepo{}
	repo := NewFailoverSchedulePolicyRepo(primary, fallback, logger.NewNop())

	got, err := repo.ListActive(context.Background(), nil, 2026)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d policies from primary, want 1", len(got))
	}
	if fallback.listCalls != 0 {
		t.Fatalf("fallback consulted while primary healthy")
	}
}

func TestFailoverSticksToLocalAfterSchemaError(t *testing.T) {
	schemaErr := fmt.Errorf("%w: relation \"schedule_policy\" does not exist", apperrors.ErrSchemaUnavailable)
	primary := &stubPolicyRepo{err: schemaErr}
	fallback := &stubPolicyRepo{}
	repo := NewFailoverSchedulePolicyRepo(primary, fallback, logger.NewNop())
	ctx := context.Background()

	// The failing read is answered by the fallback, not surfaced.
	if _, err := repo.ListActive(ctx, nil, 2026); err != nil {
		t.Fatalf("ListActive during failover: %v", err)
	}

	// Writes after the switch land in the local store without touching the
	// primary again.
	if err := repo.Insert(ctx, nil, somePolicy("Building A", 2026)); err != nil {
		t.Fatalf("Insert after failover: %v", err)
	}
	if len(fallback.policies) != 1 {
		t.Fatalf("fallback holds %d policies, want 1", len(fallback.policies))
	}

	primaryCalls := primary.listCalls
	if _, err := repo.ListActive(ctx, nil, 2026); err != nil {
		t.Fatalf("ListActive after failover: %v", err)
	}
	if primary.listCalls != primaryCalls {
		t.Fatalf("primary consulted again after sticky failover")
	}
}

func TestFailoverDoesNotSwitchOnOtherErrors(t *testing.T) {
	primary := &stubPolicyRepo{err: errors.New("connection refused")}
	fallback := &stubPolicyRepo{}
	repo := NewFailoverSchedulePolicyRepo(primary, fallback, logger.NewNop())

	if _, err := repo.ListActive(context.Background(), nil, 2026); err == nil {
		t.Fatalf("transport error swallowed; only schema errors may fail over")
	}
	if fallback.listCalls != 0 {
		t.Fatalf("fallback consulted on a non-schema error")
	}
}
