package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"perpustakaanku_backend/internals/middlewares/logger"
)

// SetupMiddlewares wires the base middleware chain for every request.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
