package model

import "github.com/google/uuid"

type Supplier struct {
	BaseModel
	Name           string        `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Address        string        `gorm:"type:varchar(255)" json:"address" validate:"max=255"`
	Contact        string        `gorm:"type:varchar(45)" json:"contact" validate:"max=45"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"organization,omitempty"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
