package repository

import (
	"time"

	"go-umkm-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockInRepository interface {
	Create(tx *gorm.DB, movement *model.StockIn) error
	Delete(tx *gorm.DB, movement *model.StockIn) error
	FindAllByOrg(orgID uuid.UUID) ([]model.StockIn, error)
	FindByIDForOrg(orgID, id uuid.UUID) (*model.StockIn, error)
	CountByProduct(productID uuid.UUID) (int64, error)
	CountBySupplier(supplierID uuid.UUID) (int64, error)
	Report(orgID uuid.UUID, filter ReportFilter) ([]model.StockIn, int64, error)
	SumQuantity(orgID uuid.UUID, filter ReportFilter) (int64, error)
	FindForExport(orgID uuid.UUID, filter ReportFilter) ([]model.StockIn, error)
	Totals(orgID uuid.UUID, start, end time.Time) (*MovementTotals, error)
	TopProducts(orgID uuid.UUID, start, end time.Time, limit int) ([]ProductTotal, error)
}

type stockInRepo struct {
	db *gorm.DB
}

func NewStockInRepo(db *gorm.DB) StockInRepository {
	return &stockInRepo{db}
}

func (r *stockInRepo) Create(tx *gorm.DB, movement *model.StockIn) error {
	return tx.Create(movement).Error
}

// Delete soft-deletes the movement. A concurrent delete of the same row
// leaves the second UPDATE matching nothing, which must surface as not-found
// so the caller rolls back its stock reversal instead of applying it twice.
func (r *stockInRepo) Delete(tx *gorm.DB, movement *model.StockIn) error {
	res := tx.Delete(movement)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// scoped filters movements through the owning product's organization. This is
// the sole tenant-isolation mechanism; there is no row-level security below it.
func (r *stockInRepo) scoped(orgID uuid.UUID) *gorm.DB {
	return r.db.Model(&model.StockIn{}).
		Joins("JOIN products ON products.id = stock_in_movements.product_id").
		Where("products.organization_id = ?", orgID)
}

func (r *stockInRepo) FindAllByOrg(orgID uuid.UUID) ([]model.StockIn, error) {
	var movements []model.StockIn
	err := r.scoped(orgID).
		Preload("Product").Preload("Supplier").Preload("User").
		Order("stock_in_movements.created_at DESC").
		Find(&movements).Error
	return movements, err
}

func (r *stockInRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.StockIn, error) {
	var movement model.StockIn
	err := r.scoped(orgID).
		Preload("Product").Preload("Supplier").Preload("User").
		First(&movement, "stock_in_movements.id = ?", id).Error
	return &movement, err
}

func (r *stockInRepo) CountByProduct(productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.StockIn{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *stockInRepo) CountBySupplier(supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.StockIn{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}

func (r *stockInRepo) filtered(orgID uuid.UUID, filter ReportFilter) *gorm.DB {
	query := r.scoped(orgID)
	if filter.StartDate != nil {
		query = query.Where("stock_in_movements.date >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("stock_in_movements.date <= ?", filter.EndDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.
			Joins("JOIN suppliers ON suppliers.id = stock_in_movements.supplier_id").
			Where("products.name ILIKE ? OR suppliers.name ILIKE ?", pattern, pattern)
	}
	return query
}

func (r *stockInRepo) Report(orgID uuid.UUID, filter ReportFilter) ([]model.StockIn, int64, error) {
	var total int64
	if err := r.filtered(orgID, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []model.StockIn
	err := r.filtered(orgID, filter).
		Preload("Product.Category").Preload("Supplier").Preload("User").
		Order("stock_in_movements.date DESC").
		Limit(filter.PerPage).
		Offset(filter.Offset()).
		Find(&movements).Error
	return movements, total, err
}

func (r *stockInRepo) SumQuantity(orgID uuid.UUID, filter ReportFilter) (int64, error) {
	var sum int64
	err := r.filtered(orgID, filter).
		Select("COALESCE(SUM(stock_in_movements.quantity), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *stockInRepo) FindForExport(orgID uuid.UUID, filter ReportFilter) ([]model.StockIn, error) {
	var movements []model.StockIn
	err := r.filtered(orgID, filter).
		Preload("Product.Category").Preload("Supplier").Preload("User").
		Order("stock_in_movements.date DESC").
		Find(&movements).Error
	return movements, err
}

func (r *stockInRepo) Totals(orgID uuid.UUID, start, end time.Time) (*MovementTotals, error) {
	var totals MovementTotals
	err := r.scoped(orgID).
		Where("stock_in_movements.date BETWEEN ? AND ?", start, end).
		Select("COUNT(*) as total_transactions, COALESCE(SUM(stock_in_movements.quantity), 0) as total_quantity").
		Scan(&totals).Error
	return &totals, err
}

func (r *stockInRepo) TopProducts(orgID uuid.UUID, start, end time.Time, limit int) ([]ProductTotal, error) {
	var totals []ProductTotal
	err := r.scoped(orgID).
		Where("stock_in_movements.date BETWEEN ? AND ?", start, end).
		Select("stock_in_movements.product_id as product_id, products.name as product_name, SUM(stock_in_movements.quantity) as total").
		Group("stock_in_movements.product_id, products.name").
		Order("total DESC").
		Limit(limit).
		Scan(&totals).Error
	return totals, err
}
