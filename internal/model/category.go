package model

import "github.com/google/uuid"

// Category groups products. Name is unique within an organization, enforced at
// the service layer so soft-deleted rows never block reuse of a name.
type Category struct {
	BaseModel
	Name           string        `gorm:"type:varchar(100);not null;index:idx_categories_org_name" json:"name" validate:"required,max=100"`
	Description    string        `gorm:"type:text" json:"description"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index:idx_categories_org_name" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"organization,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}
