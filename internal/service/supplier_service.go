package service

import (
	"errors"

	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/internal/repository"
	"go-umkm-inventory/pkg/apperr"
	"go-umkm-inventory/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierService interface {
	List(caller auth.Caller) ([]model.Supplier, error)
	Get(caller auth.Caller, id uuid.UUID) (*model.Supplier, error)
	Create(caller auth.Caller, req *SupplierRequest) (*model.Supplier, error)
	Update(caller auth.Caller, id uuid.UUID, req *SupplierRequest) (*model.Supplier, error)
	Delete(caller auth.Caller, id uuid.UUID) error
}

type SupplierRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"max=255"`
	Contact string `json:"contact" validate:"max=45"`
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	stockInRepo  repository.StockInRepository
}

func NewSupplierService(supplierRepo repository.SupplierRepository, stockInRepo repository.StockInRepository) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		stockInRepo:  stockInRepo,
	}
}

func (s *supplierService) List(caller auth.Caller) ([]model.Supplier, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	suppliers, err := s.supplierRepo.FindAllByOrg(orgID)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve suppliers", err)
	}
	return suppliers, nil
}

func (s *supplierService) Get(caller auth.Caller, id uuid.UUID) (*model.Supplier, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Supplier not found or not authorized to view")
		}
		return nil, apperr.Internal("Failed to retrieve supplier", err)
	}
	return supplier, nil
}

func (s *supplierService) Create(caller auth.Caller, req *SupplierRequest) (*model.Supplier, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}

	supplier := &model.Supplier{
		Name:           req.Name,
		Address:        req.Address,
		Contact:        req.Contact,
		OrganizationID: orgID,
	}
	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, apperr.Internal("Failed to create supplier", err)
	}
	return supplier, nil
}

func (s *supplierService) Update(caller auth.Caller, id uuid.UUID, req *SupplierRequest) (*model.Supplier, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Supplier not found or not authorized to update")
		}
		return nil, apperr.Internal("Failed to update supplier", err)
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}

	supplier.Name = req.Name
	supplier.Address = req.Address
	supplier.Contact = req.Contact
	if err := s.supplierRepo.Update(supplier); err != nil {
		return nil, apperr.Internal("Failed to update supplier", err)
	}
	return supplier, nil
}

func (s *supplierService) Delete(caller auth.Caller, id uuid.UUID) error {
	orgID, err := caller.Organization()
	if err != nil {
		return err
	}

	supplier, err := s.supplierRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Supplier not found or not authorized to delete")
		}
		return apperr.Internal("Failed to delete supplier", err)
	}

	count, err := s.stockInRepo.CountBySupplier(id)
	if err != nil {
		return apperr.Internal("Failed to delete supplier", err)
	}
	if count > 0 {
		return apperr.Conflict("Cannot delete supplier. It has associated incoming stock records.")
	}

	if err := s.supplierRepo.Delete(supplier); err != nil {
		return apperr.Internal("Failed to delete supplier", err)
	}
	return nil
}
