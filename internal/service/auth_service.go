package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/internal/repository"
	"go-umkm-inventory/pkg/apperr"
	"go-umkm-inventory/pkg/jwt"
	"go-umkm-inventory/pkg/mailer"
	"go-umkm-inventory/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

type AuthService interface {
	Register(req *RegisterRequest) (*model.UserResponse, error)
	Login(req *LoginRequest) (*LoginResult, error)
	Me(userID uuid.UUID) (*model.UserResponse, error)
	ForgotPassword(req *ForgotPasswordRequest) error
	ResetPassword(req *ResetPasswordRequest) error
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type authService struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	mail      mailer.Mailer
	log       *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	mail mailer.Mailer,
	log *zap.Logger,
) AuthService {
	return &authService{userRepo: userRepo, resetRepo: resetRepo, mail: mail, log: log}
}

// Register creates an admin account with no organization. The organization is
// registered separately after login.
func (s *authService) Register(req *RegisterRequest) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}

	fields := map[string]string{}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		fields["email"] = "The email has already been taken."
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("Failed to register user", err)
	}
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		fields["username"] = "The username has already been taken."
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("Failed to register user", err)
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	user := &model.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Role:     model.RoleAdmin,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Internal("Failed to register user", err)
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperr.Internal("Failed to register user", err)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) Login(req *LoginRequest) (*LoginResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.FieldErrors(errs))
	}

	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthenticated("Invalid email or password")
		}
		return nil, apperr.Internal("Failed to log in", err)
	}
	if !user.CheckPassword(req.Password) {
		return nil, apperr.Unauthenticated("Invalid email or password")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, apperr.Internal("Failed to log in", err)
	}
	return &LoginResult{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) Me(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthenticated("User not found")
		}
		return nil, apperr.Internal("Failed to retrieve profile", err)
	}
	resp := user.ToResponse()
	return &resp, nil
}

// ForgotPassword always reports success for unknown emails so the endpoint
// cannot be used to probe which addresses have accounts.
func (s *authService) ForgotPassword(req *ForgotPasswordRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperr.Validation(validator.FieldErrors(errs))
	}

	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperr.Internal("Failed to process password reset request", err)
	}

	token, err := generateResetToken()
	if err != nil {
		return apperr.Internal("Failed to process password reset request", err)
	}
	reset := &model.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resetRepo.Create(reset); err != nil {
		return apperr.Internal("Failed to process password reset request", err)
	}

	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"We received a request to reset your password.\n\n"+
			"Your reset token: %s\n\n"+
			"This token expires in 60 minutes. If you did not request a password reset, you can ignore this email.\n",
		user.Name, token)
	if err := s.mail.Send(user.Email, "Password Reset Request", body); err != nil {
		// Delivery is best effort; the token stays valid either way.
		s.log.Error("failed to send password reset email",
			zap.String("email", user.Email),
			zap.Error(err))
	}
	return nil
}

func (s *authService) ResetPassword(req *ResetPasswordRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperr.Validation(validator.FieldErrors(errs))
	}

	reset, err := s.resetRepo.FindValidByToken(req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.BadRequest("Invalid or expired reset token")
		}
		return apperr.Internal("Failed to reset password", err)
	}

	user := reset.User
	if user == nil {
		loaded, err := s.userRepo.FindByID(reset.UserID)
		if err != nil {
			return apperr.Internal("Failed to reset password", err)
		}
		user = loaded
	}
	if err := user.SetPassword(req.Password); err != nil {
		return apperr.Internal("Failed to reset password", err)
	}
	if err := s.userRepo.Update(user); err != nil {
		return apperr.Internal("Failed to reset password", err)
	}
	if err := s.resetRepo.MarkUsed(reset); err != nil {
		return apperr.Internal("Failed to reset password", err)
	}
	return nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
