package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Message string `json:"message"`
}

func registerAI(r fiber.Router, deps Deps) {
	g := r.Group("/ai")

	g.Post("/chat", func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil || req.Message == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
		}
		if deps.Chat == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "ai chat is not configured"})
		}

		reply, err := deps.Chat.Chat(c.Context(), req.Message)
		if err != nil {
			log.Error().Err(err).Msg("ai chat failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"response": "Failed to get AI response. Please try again later.",
			})
		}
		return c.JSON(fiber.Map{"response": reply})
	})
}
