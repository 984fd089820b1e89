package planning

import (
	"time"

	"github.com/vbarroso/manutencao-backend/internal/types"
)

// GridRow is one asset's 52-cell planning line.
type GridRow struct {
	Asset *types.Asset `json:"asset"`
	Cells []Cell       `json:"cells"`
}

// Grid is the full visual planning board for a year: one row per asset, one
// column per week.
type Grid struct {
	Year  int         `json:"year"`
	Weeks []time.Time `json:"weeks"`
	Rows  []GridRow   `json:"rows"`
}

// BuildGrid resolves every (asset, week) cell for the year. Policies are
// matched to assets by location; assets of a location with no active policy
// resolve fully out of plan. Orders should arrive in created_at order so the
// duplicate-cell tie-break stays deterministic.
func BuildGrid(year int, assets []*types.Asset, policies []*types.SchedulePolicy, orders []*types.WorkOrder) *Grid {
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

	ix := BuildOrderIndex(year, orders)

	grid := &Grid{
		Year:  year,
		Weeks: WeekStarts(year),
		Rows:  make([]GridRow, 0, len(assets)),
	}
	for _, asset := range assets {
		if asset == nil {
			continue
		}
		policy := byLocation[asset.Location]
		row := GridRow{Asset: asset, Cells: make([]Cell, WeeksPerYear)}
		for week := 0; week < WeeksPerYear; week++ {
			row.Cells[week] = ResolveCell(policy, ix, asset.ID, week)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}
