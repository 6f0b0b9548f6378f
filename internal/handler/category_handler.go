package handler

import (
	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/service"
	"go-umkm-inventory/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	service service.CategoryService
}

func NewCategoryHandler(s service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: s}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	categories, err := h.service.List(caller)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Categories retrieved successfully", categories)
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	category, err := h.service.Get(caller, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Category retrieved successfully", category)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req service.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	category, err := h.service.Create(caller, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusCreated, "Category created successfully", category)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req service.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	category, err := h.service.Update(caller, id, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Category updated successfully", category)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
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
	return response.Success(c, fiber.StatusOK, "Category deleted successfully", nil)
}
