package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vbarroso/manutencao-backend/internal/cache"
	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
)

func validInput() UpsertPolicyInput {
	return UpsertPolicyInput{
		Location:       "Building A",
		Year:           2026,
		ScheduledWeeks: []int{0, 3, 7, 11, 15, 19, 23, 26, 30, 34, 38, 42},
		DeepWeeks:      []int{0, 26},
		Author:         "tester",
	}
}

func TestUpsertPolicyValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*UpsertPolicyInput)
	}{
		{
			name:   "missing_location",
			mutate: func(in *UpsertPolicyInput) { in.Location = "" },
		},
		{
			name:   "eleven_scheduled_weeks",
			mutate: func(in *UpsertPolicyInput) { in.ScheduledWeeks = in.ScheduledWeeks[:11] },
		},
		{
			name:   "thirteen_scheduled_weeks",
			mutate: func(in *UpsertPolicyInput) { in.ScheduledWeeks = append(in.ScheduledWeeks, 45) },
		},
		{
			name:   "one_deep_week",
			mutate: func(in *UpsertPolicyInput) { in.DeepWeeks = []int{0} },
		},
		{
			name:   "three_deep_weeks",
			mutate: func(in *UpsertPolicyInput) { in.DeepWeeks = []int{0, 26, 42} },
		},
		{
			name:   "deep_week_not_scheduled",
			mutate: func(in *UpsertPolicyInput) { in.DeepWeeks = []int{0, 25} },
		},
		{
			name:   "repeated_scheduled_week",
			mutate: func(in *UpsertPolicyInput) { in.ScheduledWeeks[1] = 0 },
		},
		{
			name:   "repeated_deep_week",
			mutate: func(in *UpsertPolicyInput) { in.DeepWeeks = []int{26, 26} },
		},
		{
			name:   "week_out_of_range_high",
			mutate: func(in *UpsertPolicyInput) { in.ScheduledWeeks[11] = 52 },
		},
		{
			name:   "week_out_of_range_negative",
			mutate: func(in *UpsertPolicyInput) { in.ScheduledWeeks[0] = -1 },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakePolicyRepo{}
			svc := NewPolicyService(nil, logger.NewNop(), repo, cache.NewMemoryCache())

			in := validInput()
			tc.mutate(&in)
			_, err := svc.Upsert(context.Background(), in)
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("Upsert error = %v, want ErrValidation", err)
			}
			if len(repo.policies) != 0 {
				t.Fatalf("validation failure wrote %d policies", len(repo.policies))
			}
		})
	}
}

func TestUpsertPolicyReplacement(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := NewPolicyService(nil, logger.NewNop(), repo, cache.NewMemoryCache())
	ctx := context.Background()

	first, err := svc.Upsert(ctx, validInput())
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	replacement := validInput()
	replacement.ScheduledWeeks = []int{1, 4, 8, 12, 16, 20, 24, 27, 31, 35, 39, 43}
	replacement.DeepWeeks = []int{1, 27}
	second, err := svc.Upsert(ctx, replacement)
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	if len(repo.policies) != 2 {
		t.Fatalf("store holds %d policies, want 2 (append-only versioning)", len(repo.policies))
	}

	active, err := svc.ListActive(ctx, 2026)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("%d active policies for (Building A, 2026), want exactly 1", len(active))
	}
	if active[0].ID != second.ID {
		t.Fatalf("active policy is %s, want the replacement %s", active[0].ID, second.ID)
	}
	for _, p := range repo.policies {
		if p.ID == first.ID && p.Active {
			t.Fatalf("superseded policy still active")
		}
	}
}

func TestUpsertPolicyDoesNotTouchOtherLocations(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := NewPolicyService(nil, logger.NewNop(), repo, cache.NewMemoryCache())
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, validInput()); err != nil {
		t.Fatalf("Upsert Building A: %v", err)
	}
	other := validInput()
	other.Location = "Building B"
	if _, err := svc.Upsert(ctx, other); err != nil {
		t.Fatalf("Upsert Building B: %v", err)
	}

	active, err := svc.ListActive(ctx, 2026)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("%d active policies, want one per location", len(active))
	}
}
