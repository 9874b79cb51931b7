package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	borrowerController "perpustakaanku_backend/internals/features/library/borrowers/controller"
)

// BorrowerRoutes mounts /borrowers under the given router (usually /api).
func BorrowerRoutes(r fiber.Router, db *gorm.DB) {
	ctl := borrowerController.NewBorrowersController(db)

	borrowers := r.Group("/borrowers")
	borrowers.Get("/", ctl.GetAll)
	borrowers.Post("/", ctl.Create)
	borrowers.Put("/:id", ctl.Update)
	borrowers.Delete("/:id", ctl.Delete)
	borrowers.Get("/borrowed/:userId", ctl.GetBorrowedBooks)
}
