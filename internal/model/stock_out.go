package model

import (
	"time"

	"github.com/google/uuid"
)

// StockOut records outgoing stock to a destination (buyer, branch, disposal).
type StockOut struct {
	BaseModel
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product     *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity    int       `gorm:"not null" json:"quantity" validate:"required,min=1"`
	Destination string    `gorm:"type:varchar(255);not null" json:"destination" validate:"required,max=255"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date" validate:"required"`
	UserID      uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
}

func (StockOut) TableName() string {
	return "stock_out_movements"
}
