package repository

import (
	"go-umkm-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAllByOrg(orgID uuid.UUID) ([]model.Category, error)
	FindByIDForOrg(orgID, id uuid.UUID) (*model.Category, error)
	NameExists(orgID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	Create(category *model.Category) error
	Update(category *model.Category) error
	Delete(category *model.Category) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) FindAllByOrg(orgID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, "id = ? AND organization_id = ?", id, orgID).Error
	return &category, err
}

// NameExists checks per-organization uniqueness, excluding the record being
// updated. Pass uuid.Nil as excludeID on create.
func (r *categoryRepo) NameExists(orgID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.Model(&model.Category{}).
		Where("organization_id = ? AND name = ?", orgID, name)
	if excludeID != uuid.Nil {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *categoryRepo) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepo) Update(category *model.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepo) Delete(category *model.Category) error {
	return r.db.Delete(category).Error
}
