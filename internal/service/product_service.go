package service

import (
	"errors"
	"fmt"

	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/internal/repository"
	"go-umkm-inventory/pkg/apperr"
	"go-umkm-inventory/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	List(caller auth.Caller) ([]model.Product, error)
	Get(caller auth.Caller, id uuid.UUID) (*model.Product, error)
	Create(caller auth.Caller, req *ProductRequest) (*model.Product, error)
	Update(caller auth.Caller, id uuid.UUID, req *ProductRequest) (*model.Product, error)
	Delete(caller auth.Caller, id uuid.UUID) error
}

type ProductRequest struct {
	Name         string    `json:"name" validate:"required,max=100"`
	CategoryID   uuid.UUID `json:"category_id" validate:"uuid_required"`
	Unit         string    `json:"unit" validate:"required,max=45"`
	Stock        int       `json:"stock" validate:"min=0"`
	MinimumStock int       `json:"minimum_stock" validate:"min=0"`
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockInRepo  repository.StockInRepository
	stockOutRepo repository.StockOutRepository
	monitor      StockMonitor
	dispatcher   Dispatcher
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	stockInRepo repository.StockInRepository,
	stockOutRepo repository.StockOutRepository,
	monitor StockMonitor,
	dispatcher Dispatcher,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockInRepo:  stockInRepo,
		stockOutRepo: stockOutRepo,
		monitor:      monitor,
		dispatcher:   dispatcher,
	}
}

func (s *productService) List(caller auth.Caller) ([]model.Product, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAllByOrg(orgID)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve products", err)
	}
	return products, nil
}

func (s *productService) Get(caller auth.Caller, id uuid.UUID) (*model.Product, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Product not found or not authorized to view")
		}
		return nil, apperr.Internal("Failed to retrieve product", err)
	}
	return product, nil
}

func (s *productService) Create(caller auth.Caller, req *ProductRequest) (*model.Product, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}

	if _, err := s.categoryRepo.FindByIDForOrg(orgID, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Category not found or does not belong to your organization")
		}
		return nil, apperr.Internal("Failed to create product", err)
	}

	exists, err := s.productRepo.NameExists(orgID, req.Name, uuid.Nil)
	if err != nil {
		return nil, apperr.Internal("Failed to create product", err)
	}
	if exists {
		return nil, apperr.Conflict("Product name already exists in your organization")
	}

	product := &model.Product{
		Name:           req.Name,
		CategoryID:     req.CategoryID,
		Unit:           req.Unit,
		Stock:          req.Stock,
		MinimumStock:   req.MinimumStock,
		OrganizationID: orgID,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, apperr.Internal("Failed to create product", err)
	}
	return product, nil
}

// Update treats a submitted stock that differs from the stored value as a
// manual adjustment: the same post-mutation hooks run as for ledger writes.
func (s *productService) Update(caller auth.Caller, id uuid.UUID, req *ProductRequest) (*model.Product, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Product not found or not authorized to update")
		}
		return nil, apperr.Internal("Failed to update product", err)
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}

	if _, err := s.categoryRepo.FindByIDForOrg(orgID, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Category not found or does not belong to your organization")
		}
		return nil, apperr.Internal("Failed to update product", err)
	}

	exists, err := s.productRepo.NameExists(orgID, req.Name, id)
	if err != nil {
		return nil, apperr.Internal("Failed to update product", err)
	}
	if exists {
		return nil, apperr.Conflict("Product name already exists in your organization")
	}

	oldStock := product.Stock

	product.Name = req.Name
	product.CategoryID = req.CategoryID
	product.Category = nil
	product.Unit = req.Unit
	product.Stock = req.Stock
	product.MinimumStock = req.MinimumStock
	if err := s.productRepo.Update(product); err != nil {
		return nil, apperr.Internal("Failed to update product", err)
	}

	s.monitor.CheckLowStock(product.ID)

	if req.Stock != oldStock {
		direction := DirectionIncrease
		if req.Stock < oldStock {
			direction = DirectionDecrease
		}
		diff := req.Stock - oldStock
		if diff < 0 {
			diff = -diff
		}
		s.dispatcher.DispatchStockChange(StockChangeEvent{
			Product:   *product,
			Direction: direction,
			Quantity:  diff,
			Reason:    fmt.Sprintf("Manual stock adjustment by %s", caller.Name),
			OldStock:  oldStock,
			NewStock:  req.Stock,
		})
	}
	return product, nil
}

func (s *productService) Delete(caller auth.Caller, id uuid.UUID) error {
	orgID, err := caller.Organization()
	if err != nil {
		return err
	}

	product, err := s.productRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Product not found or not authorized to delete")
		}
		return apperr.Internal("Failed to delete product", err)
	}

	inCount, err := s.stockInRepo.CountByProduct(id)
	if err != nil {
		return apperr.Internal("Failed to delete product", err)
	}
	outCount, err := s.stockOutRepo.CountByProduct(id)
	if err != nil {
		return apperr.Internal("Failed to delete product", err)
	}
	if inCount > 0 || outCount > 0 {
		return apperr.Conflict("Cannot delete product. It has associated stock movements.")
	}

	if err := s.productRepo.Delete(product); err != nil {
		return apperr.Internal("Failed to delete product", err)
	}
	return nil
}
