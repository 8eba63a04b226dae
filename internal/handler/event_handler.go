package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"campus-notify/internal/domain"
	"campus-notify/internal/middleware"
	"campus-notify/internal/service/catalog"
)

type EventHandler struct {
	catalogSvc catalog.Service
}

func NewEventHandler(catalogSvc catalog.Service) *EventHandler {
	return &EventHandler{catalogSvc: catalogSvc}
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	result, err := h.catalogSvc.ListEvents(c.Context(), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return middleware.BadRequest("Invalid event ID")
	}

	event, err := h.catalogSvc.GetEvent(c.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrEventNotFound) {
			return middleware.NotFound("Notification event not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(event)
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateEventInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Malformed request body")
	}

	event, err := h.catalogSvc.CreateEvent(c.Context(), input)
	if err != nil {
		if errors.Is(err, catalog.ErrMasterNotFound) {
			return middleware.BadRequest("Referenced notification master does not exist")
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return middleware.BadRequest("Invalid event ID")
	}

	var input domain.UpdateEventInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Malformed request body")
	}

	event, err := h.catalogSvc.UpdateEvent(c.Context(), id, input)
	if err != nil {
		if errors.Is(err, catalog.ErrEventNotFound) {
			return middleware.NotFound("Notification event not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(event)
}
