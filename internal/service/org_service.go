package service

import (
	"errors"

	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/internal/repository"
	"go-umkm-inventory/pkg/apperr"
	"go-umkm-inventory/pkg/validator"

	"gorm.io/gorm"
)

type OrganizationService interface {
	Create(caller auth.Caller, req *OrganizationRequest) (*model.Organization, error)
	Get(caller auth.Caller) (*model.Organization, error)
	Update(caller auth.Caller, req *OrganizationRequest) (*model.Organization, error)
}

type OrganizationRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Owner   string `json:"owner" validate:"required,max=255"`
	Address string `json:"address" validate:"required,max=255"`
	Contact string `json:"contact" validate:"required,max=255"`
}

type organizationService struct {
	db       repository.Transactor
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

func NewOrganizationService(
	db repository.Transactor,
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
) OrganizationService {
	return &organizationService{db: db, orgRepo: orgRepo, userRepo: userRepo}
}

// Create registers the caller's organization. Each admin registers at most
// one: the org row and the user binding commit in a single transaction.
func (s *organizationService) Create(caller auth.Caller, req *OrganizationRequest) (*model.Organization, error) {
	if caller.OrganizationID != nil {
		return nil, apperr.BadRequest("You already have an organization registered")
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}

	org := &model.Organization{
		Name:    req.Name,
		Owner:   req.Owner,
		Address: req.Address,
		Contact: req.Contact,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orgRepo.Create(tx, org); err != nil {
			return err
		}
		// The binding only lands on a user without one, so a second
		// create racing this one aborts instead of orphaning an org.
		if err := s.userRepo.AssignOrganization(tx, caller.UserID, org.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.BadRequest("You already have an organization registered")
			}
			return err
		}
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("Failed to create organization", err)
	}
	return org, nil
}

func (s *organizationService) Get(caller auth.Caller) (*model.Organization, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Organization not found")
		}
		return nil, apperr.Internal("Failed to retrieve organization", err)
	}
	return org, nil
}

func (s *organizationService) Update(caller auth.Caller, req *OrganizationRequest) (*model.Organization, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Organization not found")
		}
		return nil, apperr.Internal("Failed to update organization", err)
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}

	org.Name = req.Name
	org.Owner = req.Owner
	org.Address = req.Address
	org.Contact = req.Contact
	if err := s.orgRepo.Update(org); err != nil {
		return nil, apperr.Internal("Failed to update organization", err)
	}
	return org, nil
}
