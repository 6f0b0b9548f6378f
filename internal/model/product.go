package model

import "github.com/google/uuid"

// Product carries the stock counter the ledger maintains. Stock and
// MinimumStock are always non-negative; stock only changes through movement
// records or a manual adjustment via product update.
type Product struct {
	BaseModel
	Name           string        `gorm:"type:varchar(100);not null;index:idx_products_org_name" json:"name" validate:"required,max=100"`
	CategoryID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category       *Category     `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Unit           string        `gorm:"type:varchar(45);not null" json:"unit" validate:"required,max=45"`
	Stock          int           `gorm:"not null;default:0" json:"stock" validate:"min=0"`
	MinimumStock   int           `gorm:"not null;default:0" json:"minimum_stock" validate:"min=0"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index:idx_products_org_name" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"organization,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// LowStock reports whether the stock has reached the minimum threshold.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinimumStock
}
