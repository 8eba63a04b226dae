package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"campus-notify/internal/domain"
	"campus-notify/internal/service"
)

type Handlers struct {
	Enqueue      *EnqueueHandler
	Master       *MasterHandler
	Event        *EventHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Enqueue:      NewEnqueueHandler(services.Enqueue),
		Master:       NewMasterHandler(services.Catalog),
		Event:        NewEventHandler(services.Catalog),
		Notification: NewNotificationHandler(services.Audit),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{Page: 1, PageSize: 20}
	if page, err := strconv.Atoi(c.Query("page", "1")); err == nil && page > 0 {
		params.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size", "20")); err == nil && size > 0 && size <= 100 {
		params.PageSize = size
	}
	return params
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}
