package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"campus-notify/internal/middleware"
	"campus-notify/internal/service/audit"
)

// NotificationHandler serves the read-only inspection endpoints. Delivery
// state is only observable here; the enqueue call never waits for it.
type NotificationHandler struct {
	auditSvc audit.Service
}

func NewNotificationHandler(auditSvc audit.Service) *NotificationHandler {
	return &NotificationHandler{auditSvc: auditSvc}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	result, err := h.auditSvc.ListNotifications(c.Context(), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	n, err := h.auditSvc.GetNotification(c.Context(), id)
	if err != nil {
		if errors.Is(err, audit.ErrNotFound) {
			return middleware.NotFound("Notification not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(n)
}

func (h *NotificationHandler) ListContents(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	contents, err := h.auditSvc.ListContents(c.Context(), id)
	if err != nil {
		if errors.Is(err, audit.ErrNotFound) {
			return middleware.NotFound("Notification not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(contents)
}

func (h *NotificationHandler) ListQueue(c *fiber.Ctx) error {
	result, err := h.auditSvc.ListQueue(c.Context(), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetQueueEntry(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return middleware.BadRequest("Invalid queue ID")
	}

	q, err := h.auditSvc.GetQueueEntry(c.Context(), id)
	if err != nil {
		if errors.Is(err, audit.ErrNotFound) {
			return middleware.NotFound("Queue entry not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(q)
}
