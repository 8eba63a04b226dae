package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"campus-notify/internal/domain"
	"campus-notify/internal/middleware"
	"campus-notify/internal/service/catalog"
)

type MasterHandler struct {
	catalogSvc catalog.Service
}

func NewMasterHandler(catalogSvc catalog.Service) *MasterHandler {
	return &MasterHandler{catalogSvc: catalogSvc}
}

func (h *MasterHandler) List(c *fiber.Ctx) error {
	result, err := h.catalogSvc.ListMasters(c.Context(), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MasterHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return middleware.BadRequest("Invalid master ID")
	}

	master, err := h.catalogSvc.GetMaster(c.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrMasterNotFound) {
			return middleware.NotFound("Notification master not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(master)
}

func (h *MasterHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateMasterInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Malformed request body")
	}

	master, err := h.catalogSvc.CreateMaster(c.Context(), input)
	if err != nil {
		return middleware.BadRequest(domain.TruncateError(err.Error()))
	}
	return c.Status(fiber.StatusCreated).JSON(master)
}

func (h *MasterHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return middleware.BadRequest("Invalid master ID")
	}

	var input domain.UpdateMasterInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Malformed request body")
	}

	master, err := h.catalogSvc.UpdateMaster(c.Context(), id, input)
	if err != nil {
		if errors.Is(err, catalog.ErrMasterNotFound) {
			return middleware.NotFound("Notification master not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(master)
}

func (h *MasterHandler) ListFields(c *fiber.Ctx) error {
	masterID, err := paramID(c, "masterId")
	if err != nil {
		return middleware.BadRequest("Invalid master ID")
	}

	fields, err := h.catalogSvc.ListFields(c.Context(), masterID)
	if err != nil {
		if errors.Is(err, catalog.ErrMasterNotFound) {
			return middleware.NotFound("Notification master not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fields)
}

func (h *MasterHandler) AddField(c *fiber.Ctx) error {
	masterID, err := paramID(c, "masterId")
	if err != nil {
		return middleware.BadRequest("Invalid master ID")
	}

	var input domain.CreateFieldInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Malformed request body")
	}

	field, err := h.catalogSvc.AddField(c.Context(), masterID, input)
	if err != nil {
		if errors.Is(err, catalog.ErrMasterNotFound) {
			return middleware.NotFound("Notification master not found")
		}
		return middleware.BadRequest(domain.TruncateError(err.Error()))
	}
	return c.Status(fiber.StatusCreated).JSON(field)
}

func (h *MasterHandler) RemoveField(c *fiber.Ctx) error {
	masterID, err := paramID(c, "masterId")
	if err != nil {
		return middleware.BadRequest("Invalid master ID")
	}
	fieldID, err := paramID(c, "fieldId")
	if err != nil {
		return middleware.BadRequest("Invalid field ID")
	}

	if err := h.catalogSvc.RemoveField(c.Context(), masterID, fieldID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MasterHandler) ListMeta(c *fiber.Ctx) error {
	masterID, err := paramID(c, "masterId")
	if err != nil {
		return middleware.BadRequest("Invalid master ID")
	}

	meta, err := h.catalogSvc.ListMeta(c.Context(), masterID)
	if err != nil {
		if errors.Is(err, catalog.ErrMasterNotFound) {
			return middleware.NotFound("Notification master not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(meta)
}

func (h *MasterHandler) AddMeta(c *fiber.Ctx) error {
	masterID, err := paramID(c, "masterId")
	if err != nil {
		return middleware.BadRequest("Invalid master ID")
	}

	var input domain.MetaInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Malformed request body")
	}

	meta, err := h.catalogSvc.AddMeta(c.Context(), masterID, input)
	if err != nil {
		if errors.Is(err, catalog.ErrMasterNotFound) {
			return middleware.NotFound("Notification master not found")
		}
		return middleware.BadRequest(domain.TruncateError(err.Error()))
	}
	return c.Status(fiber.StatusCreated).JSON(meta)
}

func (h *MasterHandler) UpdateMeta(c *fiber.Ctx) error {
	masterID, err := paramID(c, "masterId")
	if err != nil {
		return middleware.BadRequest("Invalid master ID")
	}
	metaID, err := paramID(c, "metaId")
	if err != nil {
		return middleware.BadRequest("Invalid meta ID")
	}

	var input domain.MetaInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Malformed request body")
	}

	if err := h.catalogSvc.UpdateMeta(c.Context(), masterID, metaID, input.Value); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MasterHandler) RemoveMeta(c *fiber.Ctx) error {
	masterID, err := paramID(c, "masterId")
	if err != nil {
		return middleware.BadRequest("Invalid master ID")
	}
	metaID, err := paramID(c, "metaId")
	if err != nil {
		return middleware.BadRequest("Invalid meta ID")
	}

	if err := h.catalogSvc.RemoveMeta(c.Context(), masterID, metaID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
