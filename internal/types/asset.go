package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Asset struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code      string         `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Location  string         `gorm:"column:location;not null;index" json:"location"`
	Type      string         `gorm:"column:type" json:"type"` // split|central|chiller|exaustor|...
	Active    bool           `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Asset) TableName() string { return "asset" }
