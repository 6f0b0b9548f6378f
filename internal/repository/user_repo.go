package repository

import (
	"go-umkm-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uuid.UUID) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Update(user *model.User) error
	Delete(user *model.User) error
	FindStaffByOrg(orgID uuid.UUID) ([]model.User, error)
	FindStaffByIDForOrg(orgID, id uuid.UUID) (*model.User, error)
	FindAdminsByOrg(orgID uuid.UUID) ([]model.User, error)
	AssignOrganization(tx *gorm.DB, userID, orgID uuid.UUID) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, "id = ?", id).Error
	return &user, err
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, "email = ?", email).Error
	return &user, err
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, "username = ?", username).Error
	return &user, err
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) Delete(user *model.User) error {
	return r.db.Delete(user).Error
}

func (r *userRepo) FindStaffByOrg(orgID uuid.UUID) ([]model.User, error) {
	var staff []model.User
	err := r.db.
		Where("role = ? AND organization_id = ?", model.RoleStaff, orgID).
		Order("created_at DESC").
		Find(&staff).Error
	return staff, err
}

func (r *userRepo) FindStaffByIDForOrg(orgID, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.
		First(&user, "id = ? AND role = ? AND organization_id = ?", id, model.RoleStaff, orgID).Error
	return &user, err
}

func (r *userRepo) FindAdminsByOrg(orgID uuid.UUID) ([]model.User, error) {
	var admins []model.User
	err := r.db.
		Where("role = ? AND organization_id = ?", model.RoleAdmin, orgID).
		Find(&admins).Error
	return admins, err
}

// AssignOrganization binds a user to an organization inside the caller's
// transaction so the org row and the binding commit together. The update only
// matches users with no existing binding; zero rows means another request
// already bound one, and the transaction must abort.
func (r *userRepo) AssignOrganization(tx *gorm.DB, userID, orgID uuid.UUID) error {
	res := tx.Model(&model.User{}).
		Where("id = ? AND organization_id IS NULL", userID).
		Update("organization_id", orgID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
