package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bookController "perpustakaanku_backend/internals/features/library/books/controller"
)

// BookRoutes mounts /books under the given router (usually /api).
func BookRoutes(r fiber.Router, db *gorm.DB) {
	ctl := bookController.NewBooksController(db)

	books := r.Group("/books")
	books.Get("/", ctl.GetAll)
	books.Get("/search", ctl.Search)
	books.Post("/", ctl.Create)
	books.Put("/:id", ctl.Update)
	books.Delete("/:id", ctl.Delete)
}
