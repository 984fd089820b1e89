package planning

import (
	"github.com/google/uuid"

	"github.com/vbarroso/manutencao-backend/internal/types"
)

type cellKey struct {
	AssetID uuid.UUID
	Week    int
}

// OrderIndex is the per-year lookup from (asset, week index) to the work
// order occupying that grid cell. It is rebuilt from scratch whenever the
// order set changes, never mutated incrementally.
type OrderIndex struct {
	year  int
	cells map[cellKey]*types.WorkOrder
}

// BuildOrderIndex indexes the given orders for the planning grid. Only
// preventive orders whose scheduled date lands exactly on one of the year's
// week-start dates participate; everything else (corrective work, off-grid
// dates, other years) is ignored. When two orders map to the same cell the
// first one seen wins, so callers should pass orders in created_at order.
func BuildOrderIndex(year int, orders []*types.WorkOrder) *OrderIndex {
	ix := &OrderIndex{year: year, cells: make(map[cellKey]*types.WorkOrder, len(orders))}
	for _, o := range orders {
		if o == nil || o.OrderType != types.OrderTypePreventive {
			continue
		}
		week, ok := WeekIndexOf(year, o.ScheduledDate)
		if !ok {
			continue
		}
		key := cellKey{AssetID: o.AssetID, Week: week}
		if _, taken := ix.cells[key]; taken {
			continue
		}
		ix.cells[key] = o
	}
	return ix
}

// Lookup returns the order occupying the cell, or nil.
func (ix *OrderIndex) Lookup(assetID uuid.UUID, week int) *types.WorkOrder {
	return ix.cells[cellKey{AssetID: assetID, Week: week}]
}

// Len returns the number of occupied cells.
func (ix *OrderIndex) Len() int { return len(ix.cells) }
