package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vbarroso/manutencao-backend/internal/cache"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/planning"
	"github.com/vbarroso/manutencao-backend/internal/repos"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

func cacheKeyAssets() string           { return "manutencao:assets" }
func cacheKeyPolicies(year int) string { return fmt.Sprintf("manutencao:policies:%d", year) }
func cacheKeyOrders(year int) string   { return fmt.Sprintf("manutencao:orders:%d", year) }

type PlanningService interface {
	Grid(ctx context.Context, year int, location string) (*planning.Grid, error)
	GridCSV(ctx context.Context, w io.Writer, year int, location string) error
}

type planningService struct {
	log           *logger.Logger
	assetRepo     repos.AssetRepo
	workOrderRepo repos.WorkOrderRepo
	policyRepo    repos.SchedulePolicyRepo
	cache         cache.Cache
	cacheTTL      time.Duration
}

func NewPlanningService(log *logger.Logger, assetRepo repos.AssetRepo, workOrderRepo repos.WorkOrderRepo, policyRepo repos.SchedulePolicyRepo, c cache.Cache, cacheTTL time.Duration) PlanningService {
	serviceLog := log.With("service", "PlanningService")
	return &planningService{
		log:           serviceLog,
		assetRepo:     assetRepo,
		workOrderRepo: workOrderRepo,
		policyRepo:    policyRepo,
		cache:         c,
		cacheTTL:      cacheTTL,
	}
}

// cachedGet is the read-through path for grid source collections. A decode
// failure is treated as a miss.
func cachedGet[T any](ctx context.Context, s *planningService, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if blob, ok := s.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(blob, &out); err == nil {
			return out, nil
		}
		s.cache.Invalidate(ctx, key)
	}
	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if blob, err := json.Marshal(out); err == nil {
		s.cache.Set(ctx, key, blob, s.cacheTTL)
	}
	return out, nil
}

func (s *planningService) loadAssets(ctx context.Context) ([]*types.Asset, error) {
	return cachedGet(ctx, s, cacheKeyAssets(), func(ctx context.Context) ([]*types.Asset, error) {
		return s.assetRepo.List(ctx, nil)
	})
}

func (s *planningService) loadPolicies(ctx context.Context, year int) ([]*types.SchedulePolicy, error) {
	return cachedGet(ctx, s, cacheKeyPolicies(year), func(ctx context.Context) ([]*types.SchedulePolicy, error) {
		return s.policyRepo.ListActive(ctx, nil, year)
	})
}

func (s *planningService) loadOrders(ctx context.Context, year int) ([]*types.WorkOrder, error) {
	return cachedGet(ctx, s, cacheKeyOrders(year), func(ctx context.Context) ([]*types.WorkOrder, error) {
		return s.workOrderRepo.ListByYear(ctx, nil, year, types.OrderTypePreventive)
	})
}

func filterByLocation(assets []*types.Asset, location string) []*types.Asset {
	if location == "" {
		return assets
	}
	var filtered []*types.Asset
	for _, a := range assets {
		if a.Location == location {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func (s *planningService) Grid(ctx context.Context, year int, location string) (*planning.Grid, error) {
	assets, err := s.loadAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	policies, err := s.loadPolicies(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	orders, err := s.loadOrders(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return planning.BuildGrid(year, filterByLocation(assets, location), policies, orders), nil
}

func (s *planningService) GridCSV(ctx context.Context, w io.Writer, year int, location string) error {
	grid, err := s.Grid(ctx, year, location)
	if err != nil {
		return err
	}
	return planning.WriteGridCSV(w, grid)
}
