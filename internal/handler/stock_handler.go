package handler

import (
	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/service"
	"go-umkm-inventory/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StockHandler exposes both sides of the movement ledger. Movements have no
// update endpoint: correcting a mistake means deleting the record, which
// reverses its stock effect.
type StockHandler struct {
	service service.LedgerService
}

func NewStockHandler(s service.LedgerService) *StockHandler {
	return &StockHandler{service: s}
}

func (h *StockHandler) ListStockIn(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	movements, err := h.service.ListStockIn(caller)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Incoming stock records retrieved successfully", movements)
}

func (h *StockHandler) GetStockIn(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	movement, err := h.service.GetStockIn(caller, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Incoming stock record retrieved successfully", movement)
}

func (h *StockHandler) CreateStockIn(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req service.StockInRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	movement, err := h.service.RecordStockIn(caller, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusCreated, "Incoming stock recorded successfully", movement)
}

func (h *StockHandler) DeleteStockIn(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.service.DeleteStockIn(caller, id); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Incoming stock record deleted successfully and stock adjusted", nil)
}

func (h *StockHandler) ListStockOut(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	movements, err := h.service.ListStockOut(caller)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Outgoing stock records retrieved successfully", movements)
}

func (h *StockHandler) GetStockOut(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	movement, err := h.service.GetStockOut(caller, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Outgoing stock record retrieved successfully", movement)
}

func (h *StockHandler) CreateStockOut(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req service.StockOutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, errInvalidBody())
	}

	movement, err := h.service.RecordStockOut(caller, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusCreated, "Outgoing stock recorded successfully", movement)
}

func (h *StockHandler) DeleteStockOut(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.service.DeleteStockOut(caller, id); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Outgoing stock record deleted successfully and stock adjusted", nil)
}
