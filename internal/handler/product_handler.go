package handler

import (
	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/service"
	"go-umkm-inventory/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	products, err := h.service.List(caller)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	product, err := h.service.Get(caller, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	product, err := h.service.Create(caller, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	product, err := h.service.Update(caller, id, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
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
	return response.Success(c, fiber.StatusOK, "Product deleted successfully", nil)
}
