package handler

import (
	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/service"
	"go-umkm-inventory/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type StaffHandler struct {
	service service.StaffService
}

func NewStaffHandler(s service.StaffService) *StaffHandler {
	return &StaffHandler{service: s}
}

func (h *StaffHandler) List(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	staff, err := h.service.List(caller)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Staff retrieved successfully", staff)
}

func (h *StaffHandler) Get(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	staff, err := h.service.Get(caller, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Staff member retrieved successfully", staff)
}

func (h *StaffHandler) Create(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req service.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	staff, err := h.service.Create(caller, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusCreated, "Staff member created successfully", staff)
}

func (h *StaffHandler) Update(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req service.UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	staff, err := h.service.Update(caller, id, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Staff member updated successfully", staff)
}

func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.service.Delete(caller, id); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Staff member deleted successfully", nil)
}
