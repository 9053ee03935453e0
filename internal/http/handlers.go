package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/service"
)

// ChatClient is the AI advice backend. It is optional; without one the
// chat route reports the feature as unavailable.
type ChatClient interface {
	Chat(ctx context.Context, message string) (string, error)
}

type Deps struct {
	Services  *service.Services
	Chat      ChatClient
	JWTSecret []byte
}

// Register mounts the full API surface under /api.
func Register(app *fiber.App, deps Deps) {
	api := app.Group("/api")

	registerAuth(api, deps)

	// Everything registered past this point requires a caller identity.
	api.Use(RequireAuth(deps.JWTSecret))
	registerDevices(api, deps)
	registerData(api, deps)
	registerAI(api, deps)
}
