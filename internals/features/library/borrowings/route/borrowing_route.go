package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	borrowingController "perpustakaanku_backend/internals/features/library/borrowings/controller"
	"perpustakaanku_backend/internals/middlewares"
)

// BorrowingRoutes mounts /borrowing under the given router (usually /api).
func BorrowingRoutes(r fiber.Router, db *gorm.DB) {
	ctl := borrowingController.NewBorrowingsController(db)

	borrowing := r.Group("/borrowing")
	borrowing.Post("/", ctl.Borrow)
	borrowing.Get("/", ctl.GetAll)
	borrowing.Get("/overdue", ctl.Overdue)
	borrowing.Get("/analytics", ctl.Analytics)
	borrowing.Get("/export", middlewares.ExportRateLimiter(), ctl.Export)
	borrowing.Delete("/:id", ctl.Return)
	borrowing.Put("/:id", ctl.UpdateStatus)
}
