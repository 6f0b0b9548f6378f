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

type CategoryService interface {
	List(caller auth.Caller) ([]model.Category, error)
	Get(caller auth.Caller, id uuid.UUID) (*model.Category, error)
	Create(caller auth.Caller, req *CategoryRequest) (*model.Category, error)
	Update(caller auth.Caller, id uuid.UUID, req *CategoryRequest) (*model.Category, error)
	Delete(caller auth.Caller, id uuid.UUID) error
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *categoryService) List(caller auth.Caller) ([]model.Category, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindAllByOrg(orgID)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve categories", err)
	}
	return categories, nil
}

func (s *categoryService) Get(caller auth.Caller, id uuid.UUID) (*model.Category, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Category not found or not authorized to view")
		}
		return nil, apperr.Internal("Failed to retrieve category", err)
	}
	return category, nil
}

func (s *categoryService) Create(caller auth.Caller, req *CategoryRequest) (*model.Category, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}

	exists, err := s.categoryRepo.NameExists(orgID, req.Name, uuid.Nil)
	if err != nil {
		return nil, apperr.Internal("Failed to create category", err)
	}
	if exists {
		return nil, apperr.Conflict("Category name already exists in your organization")
	}

	category := &model.Category{
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: orgID,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, apperr.Internal("Failed to create category", err)
	}
	return category, nil
}

func (s *categoryService) Update(caller auth.Caller, id uuid.UUID, req *CategoryRequest) (*model.Category, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Category not found or not authorized to update")
		}
		return nil, apperr.Internal("Failed to update category", err)
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}

	exists, err := s.categoryRepo.NameExists(orgID, req.Name, id)
	if err != nil {
		return nil, apperr.Internal("Failed to update category", err)
	}
	if exists {
		return nil, apperr.Conflict("Category name already exists in your organization")
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, apperr.Internal("Failed to update category", err)
	}
	return category, nil
}

func (s *categoryService) Delete(caller auth.Caller, id uuid.UUID) error {
	orgID, err := caller.Organization()
	if err != nil {
		return err
	}

	category, err := s.categoryRepo.FindByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Category not found or not authorized to delete")
		}
		return apperr.Internal("Failed to delete category", err)
	}

	// Restrictive delete: the guard runs here, before storage sees the delete.
	count, err := s.productRepo.CountByCategory(id)
	if err != nil {
		return apperr.Internal("Failed to delete category", err)
	}
	if count > 0 {
		return apperr.Conflict("Cannot delete category. It has associated products.")
	}

	if err := s.categoryRepo.Delete(category); err != nil {
		return apperr.Internal("Failed to delete category", err)
	}
	return nil
}
