package planning

import (
	"github.com/google/uuid"

	"github.com/vbarroso/manutencao-backend/internal/types"
)

type CellStatus string

const (
	StatusOutOfPlan  CellStatus = "out_of_plan"
	StatusPending    CellStatus = "pending"
	StatusScheduled  CellStatus = "scheduled"
	StatusInProgress CellStatus = "in_progress"
	StatusCompleted  CellStatus = "completed"
)

type VisitKind string

const (
	VisitStandard VisitKind = "standard"
	VisitDeep     VisitKind = "deep"
)

// Cell is the derived state of one (asset, week) grid intersection. It is a
// projection recomputed on every read, never persisted.
type Cell struct {
	Week   int              `json:"week"`
	Status CellStatus       `json:"status"`
	Visit  VisitKind        `json:"visit,omitempty"`
	Order  *types.WorkOrder `json:"order,omitempty"`
}

// ResolveCell computes the status of one grid cell from the location policy
// and the per-year order index. A nil policy means the location was never
// programmed, so every week is out of plan.
func ResolveCell(policy *types.SchedulePolicy, ix *OrderIndex, assetID uuid.UUID, week int) Cell {
	cell := Cell{Week: week}
	if policy == nil || !policy.IsScheduled(week) {
		cell.Status = StatusOutOfPlan
		return cell
	}
	cell.Visit = VisitStandard
	if policy.IsDeep(week) {
		cell.Visit = VisitDeep
	}

	order := ix.Lookup(assetID, week)
	if order == nil {
		cell.Status = StatusPending
		return cell
	}
	cell.Order = order
	switch order.Status {
	case types.OrderStatusCompleted:
		cell.Status = StatusCompleted
	case types.OrderStatusInProgress:
		cell.Status = StatusInProgress
	default:
		// pending and cancelled orders both occupy the cell as "scheduled".
		cell.Status = StatusScheduled
	}
	return cell
}
