package handler

import (
	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/service"
	"go-umkm-inventory/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type OrganizationHandler struct {
	service service.OrganizationService
}

func NewOrganizationHandler(s service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: s}
}

func (h *OrganizationHandler) Create(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req service.OrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	org, err := h.service.Create(caller, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusCreated, "Organization created successfully", org)
}

func (h *OrganizationHandler) Get(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	org, err := h.service.Get(caller)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Organization retrieved successfully", org)
}

func (h *OrganizationHandler) Update(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req service.OrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	org, err := h.service.Update(caller, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Organization updated successfully", org)
}
