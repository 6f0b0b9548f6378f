package repository

import (
	"go-umkm-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	FindAllByOrg(orgID uuid.UUID) ([]model.Supplier, error)
	FindByIDForOrg(orgID, id uuid.UUID) (*model.Supplier, error)
	Create(supplier *model.Supplier) error
	Update(supplier *model.Supplier) error
	Delete(supplier *model.Supplier) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) FindAllByOrg(orgID uuid.UUID) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	err := r.db.First(&supplier, "id = ? AND organization_id = ?", id, orgID).Error
	return &supplier, err
}

func (r *supplierRepo) Create(supplier *model.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *supplierRepo) Update(supplier *model.Supplier) error {
	return r.db.Save(supplier).Error
}

func (r *supplierRepo) Delete(supplier *model.Supplier) error {
	return r.db.Delete(supplier).Error
}
