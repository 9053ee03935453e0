package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/repository"
)

func registerData(r fiber.Router, deps Deps) {
	g := r.Group("/data")
	telemetry := deps.Services.Telemetry

	// Generate and store one sample for a single owned device.
	g.Post("/update/:id", func(c *fiber.Ctx) error {
		sample, err := telemetry.UpdateDevice(c.Context(), callerID(c), c.Params("id"))
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "device not found"})
		}
		if err != nil {
			log.Error().Err(err).Str("device_id", c.Params("id")).Msg("device update failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.JSON(sample)
	})

	// Generate and store one sample per owned device.
	g.Post("/update-all", func(c *fiber.Ctx) error {
		samples, err := telemetry.UpdateAll(c.Context(), callerID(c))
		if err != nil {
			log.Error().Err(err).Msg("bulk update failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.JSON(samples)
	})

	// Latest sample per owned device.
	g.Get("/current", func(c *fiber.Ctx) error {
		samples, err := telemetry.CurrentSnapshot(c.Context(), callerID(c))
		if err != nil {
			log.Error().Err(err).Msg("current snapshot failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.JSON(samples)
	})

	// Windowed history, device-scoped or across all owned devices.
	g.Get("/history", func(c *fiber.Ctx) error {
		deviceID := c.Query("deviceId")
		hours := c.QueryInt("hours", 0)

		samples, err := telemetry.History(c.Context(), callerID(c), deviceID, hours)
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "device not found"})
		}
		if err != nil {
			log.Error().Err(err).Str("device_id", deviceID).Msg("history query failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.JSON(samples)
	})

	// Delete the 10 oldest samples per owned device.
	g.Post("/crop-data", func(c *fiber.Ctx) error {
		deleted, err := telemetry.CropOldest(c.Context(), callerID(c))
		if err != nil {
			log.Error().Err(err).Msg("crop failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.JSON(fiber.Map{"deletedCount": deleted})
	})
}
