package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "perpustakaanku_backend/internals/features/library/borrowers/dto"
	model "perpustakaanku_backend/internals/features/library/borrowers/model"
	borrowingModel "perpustakaanku_backend/internals/features/library/borrowings/model"
	lifecycle "perpustakaanku_backend/internals/features/library/borrowings/service"
	helper "perpustakaanku_backend/internals/helpers"
)

type BorrowersController struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.LifecycleService
}

func NewBorrowersController(db *gorm.DB) *BorrowersController {
	return &BorrowersController{DB: db, Lifecycle: lifecycle.NewLifecycleService(db)}
}

// =========================================================
// GET /api/borrowers
// =========================================================
func (h *BorrowersController) GetAll(c *fiber.Ctx) error {
	var borrowers []model.BorrowerModel
	if err := h.DB.WithContext(c.UserContext()).Order("id").Find(&borrowers).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch borrowers")
	}
	if len(borrowers) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "No borrowers are in the DB yet")
	}
	return helper.JsonOK(c, borrowers)
}

// =========================================================
// POST /api/borrowers
// =========================================================
func (h *BorrowersController) Create(c *fiber.Ctx) error {
	var req dto.BorrowerCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMessages(err))
	}

	// Unique email check (case-insensitive)
	var cnt int64
	if err := h.DB.Model(&model.BorrowerModel{}).
		Where("lower(email) = lower(?)", req.Email).
		Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check email")
	}
	if cnt > 0 {
		return helper.JsonValidationError(c, map[string]string{"email": "Email must be unique"})
	}

	m := req.ToModel()
	if err := h.DB.Create(m).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
			return helper.JsonValidationError(c, map[string]string{"email": "Email must be unique"})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create borrower")
	}
	return helper.JsonCreated(c, m)
}

// =========================================================
// PUT /api/borrowers/:id  (partial update)
// =========================================================
func (h *BorrowersController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return helper.JsonError(c, fiber.StatusNotFound, "Borrower not found")
	}

	var req dto.BorrowerUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMessages(err))
	}

	var m model.BorrowerModel
	if err := h.DB.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Borrower not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch borrower")
	}

	if req.Email != nil && !strings.EqualFold(*req.Email, m.Email) {
		var cnt int64
		if err := h.DB.Model(&model.BorrowerModel{}).
			Where("lower(email) = lower(?) AND id <> ?", *req.Email, m.ID).
			Count(&cnt).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check email")
		}
		if cnt > 0 {
			return helper.JsonValidationError(c, map[string]string{"email": "Email must be unique"})
		}
	}

	req.ApplyToModel(&m)
	if err := h.DB.Save(&m).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
			return helper.JsonValidationError(c, map[string]string{"email": "Email must be unique"})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update borrower")
	}
	return helper.JsonOK(c, m)
}

// =========================================================
// DELETE /api/borrowers/:id
// Blocked while any borrowing row references the borrower.
// =========================================================
func (h *BorrowersController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return helper.JsonError(c, fiber.StatusNotFound, "Borrower not found")
	}

	borrower, err := h.Lifecycle.DeleteBorrower(c.UserContext(), uint(id))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonMessage(c, fiber.StatusOK,
		"A borrower "+borrower.Name+" with email "+borrower.Email+" deleted successfully")
}

// =========================================================
// GET /api/borrowers/borrowed/:userId?name&email
// Loans for a user, matched by id or name/email substring.
// =========================================================
func (h *BorrowersController) GetBorrowedBooks(c *fiber.Ctx) error {
	var q dto.BorrowedBooksQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query")
	}
	if err := helper.Validate.Struct(&q); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMessages(err))
	}

	userID, err := c.ParamsInt("userId")
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "User Id must be a number")
	}

	// id match OR conjunctive name/email substring match
	matchSQL := []string{}
	matchArgs := []interface{}{}
	if q.Name != nil {
		matchSQL = append(matchSQL, "lower(name) LIKE ?")
		matchArgs = append(matchArgs, "%"+strings.ToLower(strings.TrimSpace(*q.Name))+"%")
	}
	if q.Email != nil {
		matchSQL = append(matchSQL, "lower(email) LIKE ?")
		matchArgs = append(matchArgs, "%"+strings.ToLower(strings.TrimSpace(*q.Email))+"%")
	}

	tx := h.DB.WithContext(c.UserContext())
	var user model.BorrowerModel
	if len(matchSQL) > 0 {
		args := append([]interface{}{userID}, matchArgs...)
		err = tx.Where("id = ? OR ("+strings.Join(matchSQL, " AND ")+")", args...).First(&user).Error
	} else {
		err = tx.Where("id = ?", userID).First(&user).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch user")
	}

	var loans []borrowingModel.BorrowingModel
	if err := tx.Preload("Book").
		Where("borrower_id = ?", user.ID).
		Order("id").
		Find(&loans).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch borrowings")
	}
	if len(loans) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User hasn't borrowed books")
	}

	resp := dto.BorrowedBooksResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Borrowings: make([]dto.BorrowedLoan, 0, len(loans)),
	}
	for _, l := range loans {
		loan := dto.BorrowedLoan{
			ID:         l.ID,
			BorrowFrom: l.BorrowFrom,
			BorrowTo:   l.BorrowTo,
			Status:     l.Status,
		}
		if l.Book != nil {
			loan.Book = &dto.BorrowedBookLite{
				ID:     l.Book.ID,
				Title:  l.Book.Title,
				Author: l.Book.Author,
				ISBN:   l.Book.ISBN,
			}
		}
		resp.Borrowings = append(resp.Borrowings, loan)
	}
	return helper.JsonOK(c, resp)
}
