package controller

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "perpustakaanku_backend/internals/features/library/borrowings/dto"
	model "perpustakaanku_backend/internals/features/library/borrowings/model"
	service "perpustakaanku_backend/internals/features/library/borrowings/service"
	reports "perpustakaanku_backend/internals/features/library/reports"
	helper "perpustakaanku_backend/internals/helpers"
)

type BorrowingsController struct {
	DB        *gorm.DB
	Lifecycle *service.LifecycleService
}

func NewBorrowingsController(db *gorm.DB) *BorrowingsController {
	return &BorrowingsController{DB: db, Lifecycle: service.NewLifecycleService(db)}
}

// Column order of the exported sheet is fixed.
var exportHeaders = []string{"#", "Book Title", "Borrower Name", "Borrower Email", "Borrow From", "Borrow To"}

// =========================================================
// POST /api/borrowing
// =========================================================
func (h *BorrowingsController) Borrow(c *fiber.Ctx) error {
	var req dto.BorrowRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMessages(err))
	}

	in := service.BorrowInput{
		BookID:     *req.BookID,
		BorrowerID: *req.BorrowerID,
		BorrowTo:   *req.BorrowTo,
		Status:     req.Status,
	}
	if req.BorrowFrom != nil {
		in.BorrowFrom = *req.BorrowFrom
	}

	loan, err := h.Lifecycle.Borrow(c.UserContext(), in)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, loan)
}

// =========================================================
// GET /api/borrowing
// All loans with borrower {id,name} and book {id,title}.
// =========================================================
func (h *BorrowingsController) GetAll(c *fiber.Ctx) error {
	var rows []model.BorrowingModel
	if err := h.DB.WithContext(c.UserContext()).
		Preload("Borrower").
		Preload("Book").
		Order("id").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch borrowings")
	}
	if len(rows) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "No borrowings are in the DB yet")
	}
	return helper.JsonOK(c, dto.ToBorrowingResponses(rows))
}

// =========================================================
// DELETE /api/borrowing/:id  (return a book)
// =========================================================
func (h *BorrowingsController) Return(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Please provide a valid id")
	}

	if err := h.Lifecycle.Return(c.UserContext(), uint(id)); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonMessage(c, fiber.StatusOK, "Book returned successfully")
}

// =========================================================
// GET /api/borrowing/overdue
// =========================================================
func (h *BorrowingsController) Overdue(c *fiber.Ctx) error {
	rows, err := h.Lifecycle.Overdue(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch overdue borrowings")
	}
	if len(rows) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "No books are overdue")
	}
	return helper.JsonOK(c, dto.ToBorrowingResponses(rows))
}

// =========================================================
// PUT /api/borrowing/:id  (update loan status)
// =========================================================
func (h *BorrowingsController) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Please provide a valid id")
	}

	var req dto.BorrowingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMessages(err))
	}

	var loan model.BorrowingModel
	if err := h.DB.WithContext(c.UserContext()).
		Preload("Book").
		First(&loan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Borrowing not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch borrowing")
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return helper.JsonMessage(c, fiber.StatusOK, "No changes")
	}

	if err := h.DB.Model(&loan).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update borrowing")
	}

	title := ""
	if loan.Book != nil {
		title = loan.Book.Title
	}
	return helper.JsonMessage(c, fiber.StatusOK,
		fmt.Sprintf("Borrowing of book %s updated successfully", title))
}

// =========================================================
// GET /api/borrowing/analytics?startDate&endDate&exportData
// =========================================================
func (h *BorrowingsController) Analytics(c *fiber.Ctx) error {
	start, end, fieldErrs := parseDateRange(c)
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	rows, err := h.Lifecycle.InRange(c.UserContext(), start, end)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch analytics")
	}

	resp := dto.AnalyticsResponse{Data: dto.ToAnalyticsRows(rows)}
	if c.QueryBool("exportData") {
		// Fire-and-fetch: hand back the export URL instead of file bytes.
		link := fmt.Sprintf("/api/borrowing/export?startDate=%s&endDate=%s",
			c.Query("startDate"), c.Query("endDate"))
		resp.ExportLink = &link
	}
	return helper.JsonOK(c, resp)
}

// =========================================================
// GET /api/borrowing/export?startDate&endDate
// Streams the date-bounded borrowing set as an xlsx download.
// =========================================================
func (h *BorrowingsController) Export(c *fiber.Ctx) error {
	start, end, fieldErrs := parseDateRange(c)
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	rows, err := h.Lifecycle.InRange(c.UserContext(), start, end)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch borrowings")
	}

	data := make([][]interface{}, 0, len(rows))
	for i, r := range rows {
		title, name, email := "", "", ""
		if r.Book != nil {
			title = r.Book.Title
		}
		if r.Borrower != nil {
			name = r.Borrower.Name
			email = r.Borrower.Email
		}
		data = append(data, []interface{}{
			i + 1,
			title,
			name,
			email,
			r.BorrowFrom.Format("2006-01-02"),
			r.BorrowTo.Format("2006-01-02"),
		})
	}

	f, err := reports.NewReport(exportHeaders, data)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build report")
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to write report")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, reports.Filename("borrowings")))
	return c.SendStream(bytes.NewReader(buf.Bytes()))
}

// parseDateRange reads startDate/endDate (YYYY-MM-DD or RFC3339); both are
// required. Returns a field → message map on failure.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, map[string]string) {
	fieldErrs := map[string]string{}
	start, ok := parseDate(c.Query("startDate"))
	if !ok {
		fieldErrs["startDate"] = "startDate must be a valid date"
	}
	end, ok := parseDate(c.Query("endDate"))
	if !ok {
		fieldErrs["endDate"] = "endDate must be a valid date"
	}
	return start, end, fieldErrs
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
