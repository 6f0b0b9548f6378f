package repository

import (
	"go-umkm-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryTotals summarizes the current stock position of an organization.
type InventoryTotals struct {
	TotalProducts int64 `json:"total_products"`
	TotalStock    int64 `json:"total_stock"`
}

type ProductRepository interface {
	FindAllByOrg(orgID uuid.UUID) ([]model.Product, error)
	FindByIDForOrg(orgID, id uuid.UUID) (*model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	NameExists(orgID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(product *model.Product) error
	CountByCategory(categoryID uuid.UUID) (int64, error)
	FindForUpdate(tx *gorm.DB, orgID, id uuid.UUID) (*model.Product, error)
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int) error
	FindLowStockByOrg(orgID uuid.UUID) ([]model.Product, error)
	Totals(orgID uuid.UUID) (*InventoryTotals, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindAllByOrg(orgID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").
		First(&product, "id = ? AND organization_id = ?", id, orgID).Error
	return &product, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Organization").
		First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) NameExists(orgID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.Model(&model.Product{}).
		Where("organization_id = ? AND name = ?", orgID, name)
	if excludeID != uuid.Nil {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(product *model.Product) error {
	return r.db.Delete(product).Error
}

func (r *productRepo) CountByCategory(categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// FindForUpdate loads the product row under a write lock so concurrent stock
// mutations never read a stale counter.
func (r *productRepo) FindForUpdate(tx *gorm.DB, orgID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ? AND organization_id = ?", id, orgID).Error
	return &product, err
}

// UpdateStock runs inside the caller's transaction (tx) so the movement row
// and the counter commit together.
func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", newStock).Error
}

func (r *productRepo) FindLowStockByOrg(orgID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").
		Where("organization_id = ?", orgID).
		Where("stock <= minimum_stock").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Totals(orgID uuid.UUID) (*InventoryTotals, error) {
	var totals InventoryTotals
	err := r.db.Model(&model.Product{}).
		Where("organization_id = ?", orgID).
		Select("COUNT(*) as total_products, COALESCE(SUM(stock), 0) as total_stock").
		Scan(&totals).Error
	return &totals, err
}
