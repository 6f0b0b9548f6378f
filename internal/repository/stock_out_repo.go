package repository

import (
	"time"

	"go-umkm-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockOutRepository interface {
	Create(tx *gorm.DB, movement *model.StockOut) error
	Delete(tx *gorm.DB, movement *model.StockOut) error
	FindAllByOrg(orgID uuid.UUID) ([]model.StockOut, error)
	FindByIDForOrg(orgID, id uuid.UUID) (*model.StockOut, error)
	CountByProduct(productID uuid.UUID) (int64, error)
	Report(orgID uuid.UUID, filter ReportFilter) ([]model.StockOut, int64, error)
	SumQuantity(orgID uuid.UUID, filter ReportFilter) (int64, error)
	FindForExport(orgID uuid.UUID, filter ReportFilter) ([]model.StockOut, error)
	Totals(orgID uuid.UUID, start, end time.Time) (*MovementTotals, error)
	TopProducts(orgID uuid.UUID, start, end time.Time, limit int) ([]ProductTotal, error)
}

type stockOutRepo struct {
	db *gorm.DB
}

func NewStockOutRepo(db *gorm.DB) StockOutRepository {
	return &stockOutRepo{db}
}

func (r *stockOutRepo) Create(tx *gorm.DB, movement *model.StockOut) error {
	return tx.Create(movement).Error
}

// Delete soft-deletes the movement. A concurrent delete of the same row
// leaves the second UPDATE matching nothing, which must surface as not-found
// so the caller rolls back its stock reversal instead of applying it twice.
func (r *stockOutRepo) Delete(tx *gorm.DB, movement *model.StockOut) error {
	res := tx.Delete(movement)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *stockOutRepo) scoped(orgID uuid.UUID) *gorm.DB {
	return r.db.Model(&model.StockOut{}).
		Joins("JOIN products ON products.id = stock_out_movements.product_id").
		Where("products.organization_id = ?", orgID)
}

func (r *stockOutRepo) FindAllByOrg(orgID uuid.UUID) ([]model.StockOut, error) {
	var movements []model.StockOut
	err := r.scoped(orgID).
		Preload("Product").Preload("User").
		Order("stock_out_movements.created_at DESC").
		Find(&movements).Error
	return movements, err
}

func (r *stockOutRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.StockOut, error) {
	var movement model.StockOut
	err := r.scoped(orgID).
		Preload("Product").Preload("User").
		First(&movement, "stock_out_movements.id = ?", id).Error
	return &movement, err
}

func (r *stockOutRepo) CountByProduct(productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.StockOut{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *stockOutRepo) filtered(orgID uuid.UUID, filter ReportFilter) *gorm.DB {
	query := r.scoped(orgID)
	if filter.StartDate != nil {
		query = query.Where("stock_out_movements.date >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("stock_out_movements.date <= ?", filter.EndDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("products.name ILIKE ? OR stock_out_movements.destination ILIKE ?", pattern, pattern)
	}
	return query
}

func (r *stockOutRepo) Report(orgID uuid.UUID, filter ReportFilter) ([]model.StockOut, int64, error) {
	var total int64
	if err := r.filtered(orgID, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []model.StockOut
	err := r.filtered(orgID, filter).
		Preload("Product.Category").Preload("User").
		Order("stock_out_movements.date DESC").
		Limit(filter.PerPage).
		Offset(filter.Offset()).
		Find(&movements).Error
	return movements, total, err
}

func (r *stockOutRepo) SumQuantity(orgID uuid.UUID, filter ReportFilter) (int64, error) {
	var sum int64
	err := r.filtered(orgID, filter).
		Select("COALESCE(SUM(stock_out_movements.quantity), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *stockOutRepo) FindForExport(orgID uuid.UUID, filter ReportFilter) ([]model.StockOut, error) {
	var movements []model.StockOut
	err := r.filtered(orgID, filter).
		Preload("Product.Category").Preload("User").
		Order("stock_out_movements.date DESC").
		Find(&movements).Error
	return movements, err
}

func (r *stockOutRepo) Totals(orgID uuid.UUID, start, end time.Time) (*MovementTotals, error) {
	var totals MovementTotals
	err := r.scoped(orgID).
		Where("stock_out_movements.date BETWEEN ? AND ?", start, end).
		Select("COUNT(*) as total_transactions, COALESCE(SUM(stock_out_movements.quantity), 0) as total_quantity").
		Scan(&totals).Error
	return &totals, err
}

func (r *stockOutRepo) TopProducts(orgID uuid.UUID, start, end time.Time, limit int) ([]ProductTotal, error) {
	var totals []ProductTotal
	err := r.scoped(orgID).
		Where("stock_out_movements.date BETWEEN ? AND ?", start, end).
		Select("stock_out_movements.product_id as product_id, products.name as product_name, SUM(stock_out_movements.quantity) as total").
		Group("stock_out_movements.product_id, products.name").
		Order("total DESC").
		Limit(limit).
		Scan(&totals).Error
	return totals, err
}
