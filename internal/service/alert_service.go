package service

import (
	"errors"
	"fmt"
	"time"

	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/internal/repository"
	"go-umkm-inventory/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockMonitor re-derives a product's alert state after every stock mutation.
type StockMonitor interface {
	CheckLowStock(productID uuid.UUID)
}

type AlertService interface {
	StockMonitor
	List(caller auth.Caller) ([]model.StockAlert, error)
	ListUnread(caller auth.Caller) ([]model.StockAlert, error)
	MarkRead(caller auth.Caller, id uuid.UUID) (*model.StockAlert, error)
	MarkAllRead(caller auth.Caller) (int64, error)
	Delete(caller auth.Caller, id uuid.UUID) error
}

type alertService struct {
	alertRepo   repository.AlertRepository
	productRepo repository.ProductRepository
	dispatcher  Dispatcher
	log         *zap.Logger
}

func NewAlertService(alertRepo repository.AlertRepository, productRepo repository.ProductRepository, dispatcher Dispatcher, log *zap.Logger) AlertService {
	return &alertService{
		alertRepo:   alertRepo,
		productRepo: productRepo,
		dispatcher:  dispatcher,
		log:         log,
	}
}

// CheckLowStock runs after the mutation transaction has committed. It never
// returns an error: any internal failure is logged and alert state is left
// unchanged. The "at most one unread alert" rule is enforced by the existence
// check below; two concurrent mutations can both pass it, which is an accepted
// eventual-consistency gap.
func (s *alertService) CheckLowStock(productID uuid.UUID) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		s.log.Error("low stock check: failed to load product",
			zap.String("product_id", productID.String()), zap.Error(err))
		return
	}

	if product.LowStock() {
		_, err := s.alertRepo.FindUnreadByProduct(productID)
		if err == nil {
			// An unread alert already exists, nothing to do.
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("low stock check: failed to query existing alert",
				zap.String("product_id", productID.String()), zap.Error(err))
			return
		}

		alert := &model.StockAlert{
			ProductID: productID,
			Message:   lowStockMessage(product),
			Status:    model.AlertUnread,
			Date:      time.Now(),
		}
		if err := s.alertRepo.Create(alert); err != nil {
			s.log.Error("low stock check: failed to create alert",
				zap.String("product_id", productID.String()), zap.Error(err))
			return
		}
		s.dispatcher.DispatchLowStock(*product)
		return
	}

	// Stock is back above the threshold: retire any unread alerts.
	if err := s.alertRepo.MarkAllReadByProduct(productID); err != nil {
		s.log.Error("low stock check: failed to retire alerts",
			zap.String("product_id", productID.String()), zap.Error(err))
	}
}

func lowStockMessage(product *model.Product) string {
	return fmt.Sprintf(
		"Stock for product '%s' has reached the minimum threshold. Current stock: %d %s, Minimum threshold: %d %s",
		product.Name, product.Stock, product.Unit, product.MinimumStock, product.Unit,
	)
}

func (s *alertService) List(caller auth.Caller) ([]model.StockAlert, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	alerts, err := s.alertRepo.FindAllByOrg(orgID)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve notifications", err)
	}
	return alerts, nil
}

func (s *alertService) ListUnread(caller auth.Caller) ([]model.StockAlert, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	alerts, err := s.alertRepo.FindUnreadByOrg(orgID)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve unread notifications", err)
	}
	return alerts, nil
}

func (s *alertService) MarkRead(caller auth.Caller, id uuid.UUID) (*model.StockAlert, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	alert, err := s.alertRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Notification not found or not authorized to access")
		}
		return nil, apperr.Internal("Failed to mark notification as read", err)
	}

	alert.Status = model.AlertRead
	if err := s.alertRepo.Update(alert); err != nil {
		return nil, apperr.Internal("Failed to mark notification as read", err)
	}
	return alert, nil
}

func (s *alertService) MarkAllRead(caller auth.Caller) (int64, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return 0, err
	}
	updated, err := s.alertRepo.MarkAllReadByOrg(orgID)
	if err != nil {
		return 0, apperr.Internal("Failed to mark all notifications as read", err)
	}
	return updated, nil
}

func (s *alertService) Delete(caller auth.Caller, id uuid.UUID) error {
	orgID, err := caller.Organization()
	if err != nil {
		return err
	}
	alert, err := s.alertRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Notification not found or not authorized to delete")
		}
		return apperr.Internal("Failed to delete notification", err)
	}
	if err := s.alertRepo.Delete(alert); err != nil {
		return apperr.Internal("Failed to delete notification", err)
	}
	return nil
}
