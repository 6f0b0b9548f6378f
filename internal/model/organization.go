package model

// Organization is the tenant: every catalog and stock record belongs to
// exactly one organization, and every query is filtered by it.
type Organization struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Owner   string `gorm:"type:varchar(255);not null" json:"owner" validate:"required,max=255"`
	Address string `gorm:"type:varchar(255);not null" json:"address" validate:"required,max=255"`
	Contact string `gorm:"type:varchar(255);not null" json:"contact" validate:"required,max=255"`
}

func (Organization) TableName() string {
	return "organizations"
}
