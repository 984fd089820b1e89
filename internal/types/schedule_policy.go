package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SchedulePolicy is one location's maintenance programming for a year: the 12
// weeks that receive a visit, 2 of which are deep (semestral) visits.
// Replacing a policy deactivates the previous row instead of mutating it, so
// at most one row is active per (location, year).
type SchedulePolicy struct {
	ID             uuid.UUID                `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Location       string                   `gorm:"column:location;not null;index:idx_policy_location_year,priority:1" json:"location"`
	Year           int                      `gorm:"column:year;not null;index:idx_policy_location_year,priority:2" json:"year"`
	ScheduledWeeks datatypes.JSONSlice[int] `gorm:"column:scheduled_weeks;type:jsonb;not null" json:"scheduled_weeks"`
	DeepWeeks      datatypes.JSONSlice[int] `gorm:"column:deep_weeks;type:jsonb;not null" json:"deep_weeks"`
	Notes          string                   `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Active         bool                     `gorm:"column:active;not null;default:true;index" json:"active"`
	CreatedBy      string                   `gorm:"column:created_by" json:"created_by"`
	CreatedAt      time.Time                `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time                `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt           `gorm:"index" json:"deleted_at,omitempty"`
}

func (SchedulePolicy) TableName() string { return "schedule_policy" }

// IsScheduled reports whether the given week index receives a visit.
func (p *SchedulePolicy) IsScheduled(week int) bool {
	for _, w := range p.ScheduledWeeks {
		if w == week {
			return true
		}
	}
	return false
}

// IsDeep reports whether the given week index is a deep (semestral) visit.
func (p *SchedulePolicy) IsDeep(week int) bool {
	for _, w := range p.DeepWeeks {
		if w == week {
			return true
		}
	}
	return false
}
