package repository

import (
	"go-umkm-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationRepository interface {
	Create(tx *gorm.DB, org *model.Organization) error
	FindByID(id uuid.UUID) (*model.Organization, error)
	Update(org *model.Organization) error
}

type organizationRepo struct {
	db *gorm.DB
}

func NewOrganizationRepo(db *gorm.DB) OrganizationRepository {
	return &organizationRepo{db}
}

func (r *organizationRepo) Create(tx *gorm.DB, org *model.Organization) error {
	return tx.Create(org).Error
}

func (r *organizationRepo) FindByID(id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := r.db.First(&org, "id = ?", id).Error
	return &org, err
}

func (r *organizationRepo) Update(org *model.Organization) error {
	return r.db.Save(org).Error
}
