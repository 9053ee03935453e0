package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/ai"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/config"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/database"
	httpHandlers "github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/http"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/service"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/simulation"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen := simulation.NewGenerator(nil)
	svcs := service.New(db, gen, config.RetentionMaxAge())

	var chat httpHandlers.ChatClient
	if key := config.GeminiAPIKey(); key != "" {
		client, err := ai.NewClient(ctx, key)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client failed")
		}
		chat = client
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set; ai chat disabled")
	}

	scheduler := simulation.NewScheduler(svcs.Store, gen, config.SimulationInterval())
	scheduler.Start(ctx)
	defer scheduler.Stop()
	log.Info().Dur("interval", config.SimulationInterval()).Msg("ingestion scheduler started")

	app := fiber.New()
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	httpHandlers.Register(app, httpHandlers.Deps{
		Services:  svcs,
		Chat:      chat,
		JWTSecret: config.JWTSecret(),
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down")
		cancel()
		_ = app.Shutdown()
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
