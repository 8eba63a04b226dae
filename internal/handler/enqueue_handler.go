package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"campus-notify/internal/domain"
	"campus-notify/internal/middleware"
	"campus-notify/internal/service/enqueue"
)

type EnqueueHandler struct {
	enqueueSvc enqueue.Service
}

func NewEnqueueHandler(enqueueSvc enqueue.Service) *EnqueueHandler {
	return &EnqueueHandler{enqueueSvc: enqueueSvc}
}

// Enqueue accepts a notification intent and returns as soon as the intent
// and its queue row are persisted. Delivery happens asynchronously.
func (h *EnqueueHandler) Enqueue(c *fiber.Ctx) error {
	var input domain.EnqueueInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest(domain.TruncateError("malformed request body: " + err.Error()))
	}

	origin := enqueue.RequestOrigin{
		Origin: c.Get(fiber.HeaderOrigin),
		Host:   c.Hostname(),
	}

	id, err := h.enqueueSvc.Enqueue(c.Context(), input, origin)
	if err != nil {
		if errors.Is(err, enqueue.ErrValidation) {
			return middleware.BadRequest(domain.TruncateError(err.Error()))
		}
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"ok": true,
		"id": id,
	})
}
