package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/vbarroso/manutencao-backend/internal/cache"
	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/planning"
	"github.com/vbarroso/manutencao-backend/internal/repos"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

const (
	insertBatchSize     = 100
	maxDuplicateRetries = 3
)

// GenerateResult is what the operator sees after a run: how many orders were
// created, how many cells were already occupied, how many failed to insert.
type GenerateResult struct {
	Created        int `json:"created"`
	AlreadyExisted int `json:"already_existed"`
	Failed         int `json:"failed"`
}

type GeneratorService interface {
	Generate(ctx context.Context, year int, location string, weeks []int, author string) (*GenerateResult, error)
	GenerateCell(ctx context.Context, year int, assetID uuid.UUID, week int, author string) (*GenerateResult, error)
}

type generatorService struct {
	log           *logger.Logger
	assetRepo     repos.AssetRepo
	workOrderRepo repos.WorkOrderRepo
	policyRepo    repos.SchedulePolicyRepo
	cache         cache.Cache
}

func NewGeneratorService(log *logger.Logger, assetRepo repos.AssetRepo, workOrderRepo repos.WorkOrderRepo, policyRepo repos.SchedulePolicyRepo, c cache.Cache) GeneratorService {
	serviceLog := log.With("service", "GeneratorService")
	return &generatorService{
		log:           serviceLog,
		assetRepo:     assetRepo,
		workOrderRepo: workOrderRepo,
		policyRepo:    policyRepo,
		cache:         c,
	}
}

func newOrderNumber(year int) string {
	return fmt.Sprintf("OS-%d-%06d", year, rand.Intn(1_000_000))
}

func visitDescription(visit planning.VisitKind, week int) string {
	kind := "mensal"
	if visit == planning.VisitDeep {
		kind = "semestral"
	}
	return fmt.Sprintf("Manutencao preventiva %s - Semana %d", kind, week+1)
}

func activePoliciesByLocation(year int, policies []*types.SchedulePolicy) map[string]*types.SchedulePolicy {
	byLocation := make(map[string]*types.SchedulePolicy, len(policies))
	for _, p := range policies {
		if p == nil || !p.Active || p.Year != year {
			continue
		}
		if _, taken := byLocation[p.Location]; taken {
			continue
		}
		byLocation[p.Location] = p
	}
	return byLocation
}

func (s *generatorService) newPreventiveOrder(year int, asset *types.Asset, week int, visit planning.VisitKind, weekStart time.Time, author string) *types.WorkOrder {
	priority := types.OrderPriorityMedium
	if visit == planning.VisitDeep {
		priority = types.OrderPriorityHigh
	}
	return &types.WorkOrder{
		OrderNumber:   newOrderNumber(year),
		AssetID:       asset.ID,
		OrderType:     types.OrderTypePreventive,
		Status:        types.OrderStatusPending,
		Priority:      priority,
		ScheduledDate: weekStart,
		Description:   visitDescription(visit, week),
		CreatedBy:     author,
	}
}

// insertBatches writes orders in chunks of at most insertBatchSize. Number
// collisions regenerate the chunk's order numbers and retry; a chunk that
// still fails stops the run without rolling back chunks already committed.
func (s *generatorService) insertBatches(ctx context.Context, orders []*types.WorkOrder, result *GenerateResult) error {
	for batch := 0; batch*insertBatchSize < len(orders); batch++ {
		start := batch * insertBatchSize
		end := start + insertBatchSize
		if end > len(orders) {
			end = len(orders)
		}
		chunk := orders[start:end]

		var err error
		for attempt := 0; attempt < maxDuplicateRetries; attempt++ {
			if attempt > 0 {
				for _, o := range chunk {
					o.ID = uuid.Nil
					o.OrderNumber = newOrderNumber(o.ScheduledDate.Year())
				}
			}
			var n int
			n, err = s.workOrderRepo.CreateBatch(ctx, nil, chunk)
			if err == nil {
				result.Created += n
				break
			}
			if !errors.Is(err, apperrors.ErrDuplicateKey) {
				break
			}
			s.log.Warn("Order number collision, regenerating batch identifiers", "batch", batch, "attempt", attempt+1)
		}
		if err != nil {
			result.Failed += len(orders) - start
			return &apperrors.PartialBatchError{Created: result.Created, Batch: batch, Err: err}
		}
	}
	return nil
}

func validateWeeks(weeks []int) error {
	if len(weeks) == 0 {
		return fmt.Errorf("%w: no weeks selected", apperrors.ErrValidation)
	}
	for _, w := range weeks {
		if w < 0 || w >= planning.WeeksPerYear {
			return fmt.Errorf("%w: week %d out of range", apperrors.ErrValidation, w)
		}
	}
	return nil
}

// Generate creates one preventive order for every pending cell in the
// selected weeks. Cells already carrying an order are counted, not touched,
// so re-running over the same selection creates nothing new.
func (s *generatorService) Generate(ctx context.Context, year int, location string, weeks []int, author string) (*GenerateResult, error) {
	if err := validateWeeks(weeks); err != nil {
		return nil, err
	}

	assets, err := s.assetRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	assets = filterByLocation(assets, location)

	policies, err := s.policyRepo.ListActive(ctx, nil, year)
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}

	// The pending check runs against the live order set, never the cache:
	// that is what makes a re-run a no-op.
	orders, err := s.workOrderRepo.ListByYear(ctx, nil, year, types.OrderTypePreventive)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	ix := planning.BuildOrderIndex(year, orders)
	weekStarts := planning.WeekStarts(year)
	byLocation := activePoliciesByLocation(year, policies)

	result := &GenerateResult{}
	var synthesized []*types.WorkOrder
	for _, asset := range assets {
		policy := byLocation[asset.Location]
		for _, week := range weeks {
			cell := planning.ResolveCell(policy, ix, asset.ID, week)
			switch cell.Status {
			case planning.StatusPending:
				synthesized = append(synthesized, s.newPreventiveOrder(year, asset, week, cell.Visit, weekStarts[week], author))
			case planning.StatusOutOfPlan:
				// nothing to do for this asset/week
			default:
				result.AlreadyExisted++
			}
		}
	}

	insertErr := s.insertBatches(ctx, synthesized, result)
	if result.Created > 0 {
		s.cache.Invalidate(ctx, cacheKeyOrders(year))
	}
	s.log.Info("Bulk generation finished",
		"year", year, "location", location, "weeks", weeks,
		"created", result.Created, "already_existed", result.AlreadyExisted, "failed", result.Failed)
	return result, insertErr
}

// GenerateCell regenerates a single (asset, week) pair with the same pending
// guard as the bulk path.
func (s *generatorService) GenerateCell(ctx context.Context, year int, assetID uuid.UUID, week int, author string) (*GenerateResult, error) {
	if err := validateWeeks([]int{week}); err != nil {
		return nil, err
	}

	found, err := s.assetRepo.GetByIDs(ctx, nil, []uuid.UUID{assetID})
	if err != nil {
		return nil, fmt.Errorf("load asset: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("asset %s: %w", assetID, apperrors.ErrNotFound)
	}
	asset := found[0]

	policies, err := s.policyRepo.ListActive(ctx, nil, year)
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	orders, err := s.workOrderRepo.ListByYear(ctx, nil, year, types.OrderTypePreventive)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	ix := planning.BuildOrderIndex(year, orders)
	policy := activePoliciesByLocation(year, policies)[asset.Location]

	result := &GenerateResult{}
	cell := planning.ResolveCell(policy, ix, asset.ID, week)
	switch cell.Status {
	case planning.StatusPending:
		order := s.newPreventiveOrder(year, asset, week, cell.Visit, planning.WeekStarts(year)[week], author)
		insertErr := s.insertBatches(ctx, []*types.WorkOrder{order}, result)
		if result.Created > 0 {
			s.cache.Invalidate(ctx, cacheKeyOrders(year))
		}
		return result, insertErr
	case planning.StatusOutOfPlan:
		return nil, fmt.Errorf("%w: week %d is out of plan for %s", apperrors.ErrValidation, week, asset.Location)
	default:
		result.AlreadyExisted++
		return result, nil
	}
}
