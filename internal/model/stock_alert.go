package model

import (
	"time"

	"github.com/google/uuid"
)

type AlertStatus string

const (
	AlertUnread AlertStatus = "unread"
	AlertRead   AlertStatus = "read"
)

// StockAlert is a low-stock notification. The monitor keeps at most one unread
// alert per product; the guarantee is eventually consistent under concurrency.
type StockAlert struct {
	BaseModel
	ProductID uuid.UUID   `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Message   string      `gorm:"type:text;not null" json:"message"`
	Status    AlertStatus `gorm:"type:varchar(10);not null;default:unread;index" json:"status"`
	Date      time.Time   `gorm:"not null" json:"date"`
}

func (StockAlert) TableName() string {
	return "stock_alerts"
}
