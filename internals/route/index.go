package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bookRoute "perpustakaanku_backend/internals/features/library/books/route"
	borrowerRoute "perpustakaanku_backend/internals/features/library/borrowers/route"
	borrowingRoute "perpustakaanku_backend/internals/features/library/borrowings/route"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	log.Println("[INFO] Setting up BookRoutes...")
	bookRoute.BookRoutes(api, db)

	log.Println("[INFO] Setting up BorrowerRoutes...")
	borrowerRoute.BorrowerRoutes(api, db)

	log.Println("[INFO] Setting up BorrowingRoutes...")
	borrowingRoute.BorrowingRoutes(api, db)

	// Catch-all for unmatched /api routes
	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("Nothing here...")
	})
}
