package repository

import (
	"go-umkm-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertRepository interface {
	Create(alert *model.StockAlert) error
	FindAllByOrg(orgID uuid.UUID) ([]model.StockAlert, error)
	FindUnreadByOrg(orgID uuid.UUID) ([]model.StockAlert, error)
	FindByIDForOrg(orgID, id uuid.UUID) (*model.StockAlert, error)
	FindUnreadByProduct(productID uuid.UUID) (*model.StockAlert, error)
	Update(alert *model.StockAlert) error
	MarkAllReadByOrg(orgID uuid.UUID) (int64, error)
	MarkAllReadByProduct(productID uuid.UUID) error
	Delete(alert *model.StockAlert) error
}

type alertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) AlertRepository {
	return &alertRepo{db}
}

func (r *alertRepo) Create(alert *model.StockAlert) error {
	return r.db.Create(alert).Error
}

func (r *alertRepo) scoped(orgID uuid.UUID) *gorm.DB {
	return r.db.Model(&model.StockAlert{}).
		Joins("JOIN products ON products.id = stock_alerts.product_id").
		Where("products.organization_id = ?", orgID)
}

func (r *alertRepo) FindAllByOrg(orgID uuid.UUID) ([]model.StockAlert, error) {
	var alerts []model.StockAlert
	err := r.scoped(orgID).
		Preload("Product").
		Order("stock_alerts.created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) FindUnreadByOrg(orgID uuid.UUID) ([]model.StockAlert, error) {
	var alerts []model.StockAlert
	err := r.scoped(orgID).
		Where("stock_alerts.status = ?", model.AlertUnread).
		Preload("Product").
		Order("stock_alerts.created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.StockAlert, error) {
	var alert model.StockAlert
	err := r.scoped(orgID).
		Preload("Product").
		First(&alert, "stock_alerts.id = ?", id).Error
	return &alert, err
}

func (r *alertRepo) FindUnreadByProduct(productID uuid.UUID) (*model.StockAlert, error) {
	var alert model.StockAlert
	err := r.db.
		First(&alert, "product_id = ? AND status = ?", productID, model.AlertUnread).Error
	return &alert, err
}

func (r *alertRepo) Update(alert *model.StockAlert) error {
	return r.db.Save(alert).Error
}

func (r *alertRepo) MarkAllReadByOrg(orgID uuid.UUID) (int64, error) {
	result := r.db.Model(&model.StockAlert{}).
		Where("status = ?", model.AlertUnread).
		Where("product_id IN (?)",
			r.db.Model(&model.Product{}).Select("id").Where("organization_id = ?", orgID)).
		Update("status", model.AlertRead)
	return result.RowsAffected, result.Error
}

func (r *alertRepo) MarkAllReadByProduct(productID uuid.UUID) error {
	return r.db.Model(&model.StockAlert{}).
		Where("product_id = ? AND status = ?", productID, model.AlertUnread).
		Update("status", model.AlertRead).Error
}

func (r *alertRepo) Delete(alert *model.StockAlert) error {
	return r.db.Delete(alert).Error
}
