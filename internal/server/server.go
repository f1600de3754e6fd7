// Package server assembles the Fiber application.
package server

import (
	"learnos/internal/config"
	"learnos/internal/handler"
	"learnos/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// NewApp builds the HTTP application with every route and middleware mounted.
func NewApp(cfg config.ServerConfig, lessons *handler.LessonHandler, health *handler.HealthHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "LearnOS",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.ReadTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(app, lessons, health)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir, fiber.Static{Index: "index.html"})
	}

	app.Use(middleware.NotFound())
	return app
}
