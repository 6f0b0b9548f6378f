package repository

import (
	"time"

	"go-umkm-inventory/internal/model"

	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Create(token *model.PasswordResetToken) error
	FindValidByToken(token string) (*model.PasswordResetToken, error)
	MarkUsed(token *model.PasswordResetToken) error
}

type passwordResetRepo struct {
	db *gorm.DB
}

func NewPasswordResetRepo(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepo{db}
}

func (r *passwordResetRepo) Create(token *model.PasswordResetToken) error {
	return r.db.Create(token).Error
}

func (r *passwordResetRepo) FindValidByToken(token string) (*model.PasswordResetToken, error) {
	var reset model.PasswordResetToken
	err := r.db.Preload("User").
		First(&reset, "token = ? AND used_at IS NULL AND expires_at > ?", token, time.Now()).Error
	return &reset, err
}

func (r *passwordResetRepo) MarkUsed(token *model.PasswordResetToken) error {
	now := time.Now()
	token.UsedAt = &now
	return r.db.Save(token).Error
}
