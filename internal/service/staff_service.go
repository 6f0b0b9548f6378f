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

type StaffService interface {
	List(caller auth.Caller) ([]model.UserResponse, error)
	Get(caller auth.Caller, id uuid.UUID) (*model.UserResponse, error)
	Create(caller auth.Caller, req *CreateStaffRequest) (*model.UserResponse, error)
	Update(caller auth.Caller, id uuid.UUID, req *UpdateStaffRequest) (*model.UserResponse, error)
	Delete(caller auth.Caller, id uuid.UUID) error
}

type CreateStaffRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateStaffRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

type staffService struct {
	userRepo repository.UserRepository
}

func NewStaffService(userRepo repository.UserRepository) StaffService {
	return &staffService{userRepo: userRepo}
}

func (s *staffService) List(caller auth.Caller) ([]model.UserResponse, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	staff, err := s.userRepo.FindStaffByOrg(orgID)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve staff", err)
	}
	responses := make([]model.UserResponse, 0, len(staff))
	for i := range staff {
		responses = append(responses, staff[i].ToResponse())
	}
	return responses, nil
}

func (s *staffService) Get(caller auth.Caller, id uuid.UUID) (*model.UserResponse, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	staff, err := s.userRepo.FindStaffByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Staff member not found in your organization")
		}
		return nil, apperr.Internal("Failed to retrieve staff member", err)
	}
	resp := staff.ToResponse()
	return &resp, nil
}

// Create registers a staff account bound to the admin's organization.
func (s *staffService) Create(caller auth.Caller, req *CreateStaffRequest) (*model.UserResponse, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}
	if err := s.checkUnique(req.Email, req.Username, uuid.Nil); err != nil {
		return nil, err
	}

	staff := &model.User{
		Name:           req.Name,
		Username:       req.Username,
		Email:          req.Email,
		Role:           model.RoleStaff,
		OrganizationID: &orgID,
	}
	if err := staff.SetPassword(req.Password); err != nil {
		return nil, apperr.Internal("Failed to create staff member", err)
	}
	if err := s.userRepo.Create(staff); err != nil {
		return nil, apperr.Internal("Failed to create staff member", err)
	}
	resp := staff.ToResponse()
	return &resp, nil
}

func (s *staffService) Update(caller auth.Caller, id uuid.UUID, req *UpdateStaffRequest) (*model.UserResponse, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	staff, err := s.userRepo.FindStaffByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Staff member not found in your organization")
		}
		return nil, apperr.Internal("Failed to update staff member", err)
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}
	if err := s.checkUnique(req.Email, req.Username, staff.ID); err != nil {
		return nil, err
	}

	staff.Name = req.Name
	staff.Username = req.Username
	staff.Email = req.Email
	if req.Password != "" {
		if err := staff.SetPassword(req.Password); err != nil {
			return nil, apperr.Internal("Failed to update staff member", err)
		}
	}
	if err := s.userRepo.Update(staff); err != nil {
		return nil, apperr.Internal("Failed to update staff member", err)
	}
	resp := staff.ToResponse()
	return &resp, nil
}

func (s *staffService) Delete(caller auth.Caller, id uuid.UUID) error {
	orgID, err := caller.Organization()
	if err != nil {
		return err
	}
	staff, err := s.userRepo.FindStaffByIDForOrg(orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Staff member not found in your organization")
		}
		return apperr.Internal("Failed to delete staff member", err)
	}
	if err := s.userRepo.Delete(staff); err != nil {
		return apperr.Internal("Failed to delete staff member", err)
	}
	return nil
}

// checkUnique reports email/username collisions as field-level validation
// errors, matching the registration flow.
func (s *staffService) checkUnique(email, username string, excludeID uuid.UUID) error {
	fields := map[string]string{}

	if existing, err := s.userRepo.FindByEmail(email); err == nil && existing.ID != excludeID {
		fields["email"] = "The email has already been taken."
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("Failed to verify staff uniqueness", err)
	}

	if existing, err := s.userRepo.FindByUsername(username); err == nil && existing.ID != excludeID {
		fields["username"] = "The username has already been taken."
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("Failed to verify staff uniqueness", err)
	}

	if len(fields) > 0 {
		return apperr.Validation(fields)
	}
	return nil
}
