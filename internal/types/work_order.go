package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderType string

const (
	OrderTypePreventive OrderType = "preventive"
	OrderTypeCorrective OrderType = "corrective"
	OrderTypePredictive OrderType = "predictive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type OrderPriority string

const (
	OrderPriorityLow    OrderPriority = "low"
	OrderPriorityMedium OrderPriority = "medium"
	OrderPriorityHigh   OrderPriority = "high"
)

type WorkOrder struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderNumber   string         `gorm:"column:order_number;not null;uniqueIndex" json:"order_number"`
	AssetID       uuid.UUID      `gorm:"type:uuid;column:asset_id;not null;index" json:"asset_id"`
	Asset         *Asset         `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssetID;references:ID" json:"asset,omitempty"`
	OrderType     OrderType      `gorm:"column:order_type;not null;index" json:"order_type"`
	Status        OrderStatus    `gorm:"column:status;not null;index" json:"status"`
	Priority      OrderPriority  `gorm:"column:priority;not null" json:"priority"`
	ScheduledDate time.Time      `gorm:"column:scheduled_date;type:date;not null;index" json:"scheduled_date"`
	Description   string         `gorm:"column:description;type:text" json:"description"`
	CreatedBy     string         `gorm:"column:created_by" json:"created_by"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkOrder) TableName() string { return "work_order" }
