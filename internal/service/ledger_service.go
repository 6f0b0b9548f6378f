package service

import (
	"errors"
	"fmt"
	"time"

	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/internal/repository"
	"go-umkm-inventory/pkg/apperr"
	"go-umkm-inventory/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LedgerService owns every stock mutation. The invariant it maintains:
// product stock equals its initial value plus the sum of live stock-in
// quantities minus the sum of live stock-out quantities. Each mutation runs
// in one transaction holding a row lock on the product; the low-stock monitor
// and the dispatcher run only after commit.
type LedgerService interface {
	ListStockIn(caller auth.Caller) ([]model.StockIn, error)
	GetStockIn(caller auth.Caller, id uuid.UUID) (*model.StockIn, error)
	RecordStockIn(caller auth.Caller, req *StockInRequest) (*model.StockIn, error)
	DeleteStockIn(caller auth.Caller, id uuid.UUID) error

	ListStockOut(caller auth.Caller) ([]model.StockOut, error)
	GetStockOut(caller auth.Caller, id uuid.UUID) (*model.StockOut, error)
	RecordStockOut(caller auth.Caller, req *StockOutRequest) (*model.StockOut, error)
	DeleteStockOut(caller auth.Caller, id uuid.UUID) error
}

type StockInRequest struct {
	ProductID  uuid.UUID `json:"product_id" validate:"uuid_required"`
	SupplierID uuid.UUID `json:"supplier_id" validate:"uuid_required"`
	Quantity   int       `json:"quantity" validate:"required,min=1"`
	Date       string    `json:"date" validate:"required"` // Format: YYYY-MM-DD
}

type StockOutRequest struct {
	ProductID   uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
	Destination string    `json:"destination" validate:"required,max=255"`
	Date        string    `json:"date" validate:"required"` // Format: YYYY-MM-DD
}

type ledgerService struct {
	db           repository.Transactor
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	stockInRepo  repository.StockInRepository
	stockOutRepo repository.StockOutRepository
	monitor      StockMonitor
	dispatcher   Dispatcher
	log          *zap.Logger
}

func NewLedgerService(
	db repository.Transactor,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	stockInRepo repository.StockInRepository,
	stockOutRepo repository.StockOutRepository,
	monitor StockMonitor,
	dispatcher Dispatcher,
	log *zap.Logger,
) LedgerService {
	return &ledgerService{
		db:           db,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		stockInRepo:  stockInRepo,
		stockOutRepo: stockOutRepo,
		monitor:      monitor,
		dispatcher:   dispatcher,
		log:          log,
	}
}

func parseMovementDate(raw string) (time.Time, error) {
	date, err := time.Parse(movementDateLayout, raw)
	if err != nil {
		return time.Time{}, apperr.Validation(map[string]string{
			"date": "The date field must be a valid date in YYYY-MM-DD format",
		})
	}
	return date, nil
}

func (s *ledgerService) ListStockIn(caller auth.Caller) ([]model.StockIn, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	movements, err := s.stockInRepo.FindAllByOrg(orgID)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve incoming stock", err)
	}
	return movements, nil
}

func (s *ledgerService) GetStockIn(caller auth.Caller, id uuid.UUID) (*model.StockIn, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	movement, err := s.stockInRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Incoming stock record not found or not authorized to view")
		}
		return nil, apperr.Internal("Failed to retrieve incoming stock record", err)
	}
	return movement, nil
}

func (s *ledgerService) RecordStockIn(caller auth.Caller, req *StockInRequest) (*model.StockIn, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}
	date, err := parseMovementDate(req.Date)
	if err != nil {
		return nil, err
	}

	var (
		movement *model.StockIn
		product  *model.Product
		oldStock int
	)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		product, err = s.productRepo.FindForUpdate(tx, orgID, req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Product not found or does not belong to your organization")
			}
			return err
		}

		supplier, err := s.supplierRepo.FindByIDForOrg(orgID, req.SupplierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Supplier not found or does not belong to your organization")
			}
			return err
		}

		oldStock = product.Stock

		movement = &model.StockIn{
			ProductID:  product.ID,
			SupplierID: supplier.ID,
			Quantity:   req.Quantity,
			Date:       date,
			UserID:     caller.UserID,
		}
		if err := s.stockInRepo.Create(tx, movement); err != nil {
			return err
		}

		if err := s.productRepo.UpdateStock(tx, product.ID, oldStock+req.Quantity); err != nil {
			return err
		}

		movement.Product = product
		movement.Supplier = supplier
		return nil
	})
	if err != nil {
		return nil, wrapLedgerErr("Failed to record incoming stock", err)
	}

	product.Stock = oldStock + req.Quantity
	s.afterMutation(*product, StockChangeEvent{
		Product:   *product,
		Direction: DirectionIncrease,
		Quantity:  req.Quantity,
		Reason:    fmt.Sprintf("Incoming stock from supplier: %s", movement.Supplier.Name),
		OldStock:  oldStock,
		NewStock:  product.Stock,
	})
	return movement, nil
}

func (s *ledgerService) DeleteStockIn(caller auth.Caller, id uuid.UUID) error {
	orgID, err := caller.Organization()
	if err != nil {
		return err
	}

	var (
		product  *model.Product
		movement *model.StockIn
		oldStock int
	)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		movement, err = s.stockInRepo.FindByIDForOrg(orgID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Incoming stock record not found or not authorized to delete")
			}
			return err
		}

		product, err = s.productRepo.FindForUpdate(tx, orgID, movement.ProductID)
		if err != nil {
			return err
		}

		// Reversing the inbound movement must not drive stock negative.
		if product.Stock < movement.Quantity {
			return apperr.Conflict("Cannot delete this record. Current stock is less than the incoming amount.")
		}

		oldStock = product.Stock
		if err := s.productRepo.UpdateStock(tx, product.ID, oldStock-movement.Quantity); err != nil {
			return err
		}
		// The product lock serializes concurrent deletes of the same
		// movement; the loser sees the row already gone and must not
		// reverse stock a second time.
		if err := s.stockInRepo.Delete(tx, movement); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Incoming stock record not found or not authorized to delete")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return wrapLedgerErr("Failed to delete incoming stock record", err)
	}

	product.Stock = oldStock - movement.Quantity
	s.afterMutation(*product, StockChangeEvent{
		Product:   *product,
		Direction: DirectionDecrease,
		Quantity:  movement.Quantity,
		Reason:    fmt.Sprintf("Reversal of incoming stock (ID: %s)", movement.ID),
		OldStock:  oldStock,
		NewStock:  product.Stock,
	})
	return nil
}

func (s *ledgerService) ListStockOut(caller auth.Caller) ([]model.StockOut, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	movements, err := s.stockOutRepo.FindAllByOrg(orgID)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve outgoing stock", err)
	}
	return movements, nil
}

func (s *ledgerService) GetStockOut(caller auth.Caller, id uuid.UUID) (*model.StockOut, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	movement, err := s.stockOutRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Outgoing stock record not found or not authorized to view")
		}
		return nil, apperr.Internal("Failed to retrieve outgoing stock record", err)
	}
	return movement, nil
}

func (s *ledgerService) RecordStockOut(caller auth.Caller, req *StockOutRequest) (*model.StockOut, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}
	date, err := parseMovementDate(req.Date)
	if err != nil {
		return nil, err
	}

	var (
		movement *model.StockOut
		product  *model.Product
		oldStock int
	)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		product, err = s.productRepo.FindForUpdate(tx, orgID, req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Product not found or does not belong to your organization")
			}
			return err
		}

		if product.Stock < req.Quantity {
			return apperr.Conflictf("Insufficient stock. Available: %d, Requested: %d", product.Stock, req.Quantity)
		}

		oldStock = product.Stock

		movement = &model.StockOut{
			ProductID:   product.ID,
			Quantity:    req.Quantity,
			Destination: req.Destination,
			Date:        date,
			UserID:      caller.UserID,
		}
		if err := s.stockOutRepo.Create(tx, movement); err != nil {
			return err
		}

		if err := s.productRepo.UpdateStock(tx, product.ID, oldStock-req.Quantity); err != nil {
			return err
		}

		movement.Product = product
		return nil
	})
	if err != nil {
		return nil, wrapLedgerErr("Failed to record outgoing stock", err)
	}

	product.Stock = oldStock - req.Quantity
	s.afterMutation(*product, StockChangeEvent{
		Product:   *product,
		Direction: DirectionDecrease,
		Quantity:  req.Quantity,
		Reason:    fmt.Sprintf("Outgoing stock to: %s", req.Destination),
		OldStock:  oldStock,
		NewStock:  product.Stock,
	})
	return movement, nil
}

func (s *ledgerService) DeleteStockOut(caller auth.Caller, id uuid.UUID) error {
	orgID, err := caller.Organization()
	if err != nil {
		return err
	}

	var (
		product  *model.Product
		movement *model.StockOut
		oldStock int
	)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		movement, err = s.stockOutRepo.FindByIDForOrg(orgID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Outgoing stock record not found or not authorized to delete")
			}
			return err
		}

		product, err = s.productRepo.FindForUpdate(tx, orgID, movement.ProductID)
		if err != nil {
			return err
		}

		oldStock = product.Stock
		if err := s.productRepo.UpdateStock(tx, product.ID, oldStock+movement.Quantity); err != nil {
			return err
		}
		// The product lock serializes concurrent deletes of the same
		// movement; the loser sees the row already gone and must not
		// reverse stock a second time.
		if err := s.stockOutRepo.Delete(tx, movement); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Outgoing stock record not found or not authorized to delete")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return wrapLedgerErr("Failed to delete outgoing stock record", err)
	}

	product.Stock = oldStock + movement.Quantity
	s.afterMutation(*product, StockChangeEvent{
		Product:   *product,
		Direction: DirectionIncrease,
		Quantity:  movement.Quantity,
		Reason:    fmt.Sprintf("Reversal of outgoing stock (ID: %s)", movement.ID),
		OldStock:  oldStock,
		NewStock:  product.Stock,
	})
	return nil
}

// afterMutation runs the post-commit hooks. Both are best-effort: by this
// point the transaction is committed and the response is already decided.
func (s *ledgerService) afterMutation(product model.Product, event StockChangeEvent) {
	s.monitor.CheckLowStock(product.ID)
	s.dispatcher.DispatchStockChange(event)
}

func wrapLedgerErr(message string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperr.Internal(message, err)
}
