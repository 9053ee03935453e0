package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/repository"
)

type createDeviceRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

func registerDevices(r fiber.Router, deps Deps) {
	g := r.Group("/devices")

	g.Post("/", func(c *fiber.Ctx) error {
		var req createDeviceRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
		}
		if !domain.ValidDeviceType(req.Type) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type must be one of: solar, meter, appliance"})
		}

		device := domain.Device{
			ID:           uuid.NewString(),
			UserID:       callerID(c),
			Name:         req.Name,
			Type:         req.Type,
			Location:     req.Location,
			RegisteredAt: time.Now(),
		}
		if err := deps.Services.Store.InsertDevice(c.Context(), &device); err != nil {
			log.Error().Err(err).Msg("device create failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.Status(fiber.StatusCreated).JSON(device)
	})

	g.Get("/", func(c *fiber.Ctx) error {
		devices, err := deps.Services.Store.DevicesByUser(c.Context(), callerID(c))
		if err != nil {
			log.Error().Err(err).Msg("device list failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		if devices == nil {
			devices = []domain.Device{}
		}
		return c.JSON(devices)
	})

	g.Get("/:id", func(c *fiber.Ctx) error {
		device, err := deps.Services.Store.DeviceByID(c.Context(), callerID(c), c.Params("id"))
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "device not found"})
		}
		if err != nil {
			log.Error().Err(err).Str("device_id", c.Params("id")).Msg("device lookup failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.JSON(device)
	})

	g.Delete("/:id", func(c *fiber.Ctx) error {
		err := deps.Services.Store.DeleteDevice(c.Context(), callerID(c), c.Params("id"))
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "device not found"})
		}
		if err != nil {
			log.Error().Err(err).Str("device_id", c.Params("id")).Msg("device delete failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.JSON(fiber.Map{"message": "device deleted"})
	})
}
