package handler

import (
	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/service"
	"go-umkm-inventory/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	service service.AlertService
}

func NewNotificationHandler(s service.AlertService) *NotificationHandler {
	return &NotificationHandler{service: s}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	alerts, err := h.service.List(caller)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Notifications retrieved successfully", alerts)
}

func (h *NotificationHandler) ListUnread(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	alerts, err := h.service.ListUnread(caller)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Unread notifications retrieved successfully", fiber.Map{
		"count":         len(alerts),
		"notifications": alerts,
	})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return response.Error(c, err)
	}

	alert, err := h.service.MarkRead(caller, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Notification marked as read", alert)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	updated, err := h.service.MarkAllRead(caller)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "All notifications marked as read", fiber.Map{
		"updated": updated,
	})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
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
	return response.Success(c, fiber.StatusOK, "Notification deleted successfully", nil)
}
