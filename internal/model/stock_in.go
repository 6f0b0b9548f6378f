package model

import (
	"time"

	"github.com/google/uuid"
)

// StockIn records incoming stock from a supplier. Rows are immutable once
// written; the only mutation is deletion, which reverses the stock adjustment.
type StockIn struct {
	BaseModel
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product    *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_id" validate:"uuid_required"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT" json:"supplier,omitempty"`
	Quantity   int       `gorm:"not null" json:"quantity" validate:"required,min=1"`
	Date       time.Time `gorm:"type:date;not null;index" json:"date" validate:"required"`
	UserID     uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
}

func (StockIn) TableName() string {
	return "stock_in_movements"
}
