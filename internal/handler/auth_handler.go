package handler

import (
	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/service"
	"go-umkm-inventory/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	user, err := h.service.Register(&req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusCreated, "User registered successfully", user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	result, err := h.service.Login(&req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Login successful", result)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.service.Me(caller.UserID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Profile retrieved successfully", user)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req service.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	if err := h.service.ForgotPassword(&req); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "If the email is registered, a password reset token has been sent", nil)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req service.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	if err := h.service.ResetPassword(&req); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Password has been reset successfully", nil)
}
