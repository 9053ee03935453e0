package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/auth"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/repository"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func registerAuth(r fiber.Router, deps Deps) {
	g := r.Group("/auth")

	g.Post("/register", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Name == "" || req.Email == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, email and password are required"})
		}

		if _, err := deps.Services.Store.UserByEmail(c.Context(), req.Email); err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Error().Err(err).Msg("register: user lookup failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Error().Err(err).Msg("register: password hash failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}

		user := domain.User{
			ID:           uuid.NewString(),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			CreatedAt:    time.Now(),
		}
		if err := deps.Services.Store.InsertUser(c.Context(), &user); err != nil {
			log.Error().Err(err).Msg("register: insert failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}

		token, err := auth.GenerateToken(user.ID, deps.JWTSecret)
		if err != nil {
			log.Error().Err(err).Msg("register: token issue failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token, "user": user})
	})

	g.Post("/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		user, err := deps.Services.Store.UserByEmail(c.Context(), req.Email)
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		if err != nil {
			log.Error().Err(err).Msg("login: user lookup failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}

		token, err := auth.GenerateToken(user.ID, deps.JWTSecret)
		if err != nil {
			log.Error().Err(err).Msg("login: token issue failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.JSON(fiber.Map{"token": token, "user": user})
	})
}
