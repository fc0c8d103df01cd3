package handlers

import (
	"geopost-service/internal/middleware"

	"github.com/gofiber/fiber/v3"
)

func RegisterHealthRoutes(app *fiber.App) {
	app.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
		})
	})
	app.Get("/metrics", middleware.MetricsHandler())
}
