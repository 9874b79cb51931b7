package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "perpustakaanku_backend/internals/features/library/books/dto"
	model "perpustakaanku_backend/internals/features/library/books/model"
	lifecycle "perpustakaanku_backend/internals/features/library/borrowings/service"
	helper "perpustakaanku_backend/internals/helpers"
)

type BooksController struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.LifecycleService
}

func NewBooksController(db *gorm.DB) *BooksController {
	return &BooksController{DB: db, Lifecycle: lifecycle.NewLifecycleService(db)}
}

// searchableFields is the allow-list for /books/search: query param → column.
// Every present param becomes a case-insensitive substring condition.
var searchableFields = []struct {
	column string
	value  func(q *dto.BookSearchQuery) *string
}{
	{"title", func(q *dto.BookSearchQuery) *string { return q.Title }},
	{"author", func(q *dto.BookSearchQuery) *string { return q.Author }},
	{"isbn", func(q *dto.BookSearchQuery) *string { return q.ISBN }},
}

// =========================================================
// GET /api/books
// Every book with its computed availableCount.
// =========================================================
func (h *BooksController) GetAll(c *fiber.Ctx) error {
	var books []dto.BookWithAvailability
	err := h.DB.WithContext(c.UserContext()).
		Model(&model.BookModel{}).
		Select("books.*, books.quantity - COUNT(borrowings.id) AS available_count").
		Joins("LEFT JOIN borrowings ON borrowings.book_id = books.id").
		Group("books.id").
		Order("books.id").
		Scan(&books).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch books")
	}
	if len(books) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "No books are in the DB yet")
	}
	return helper.JsonOK(c, books)
}

// =========================================================
// GET /api/books/search?title&author&isbn
// Conjunctive partial match; zero matches is a 404, not an empty list.
// =========================================================
func (h *BooksController) Search(c *fiber.Ctx) error {
	var q dto.BookSearchQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query")
	}

	tx := h.DB.WithContext(c.UserContext()).Model(&model.BookModel{})
	for _, f := range searchableFields {
		if v := f.value(&q); v != nil && strings.TrimSpace(*v) != "" {
			tx = tx.Where("lower("+f.column+") LIKE ?", "%"+strings.ToLower(strings.TrimSpace(*v))+"%")
		}
	}

	var books []model.BookModel
	if err := tx.Order("id").Find(&books).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to search books")
	}
	if len(books) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
	}
	return helper.JsonOK(c, books)
}

// =========================================================
// POST /api/books
// =========================================================
func (h *BooksController) Create(c *fiber.Ctx) error {
	var req dto.BookCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMessages(err))
	}

	// Unique ISBN check (case-insensitive)
	var cnt int64
	if err := h.DB.Model(&model.BookModel{}).
		Where("lower(isbn) = lower(?)", req.ISBN).
		Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check ISBN")
	}
	if cnt > 0 {
		return helper.JsonValidationError(c, map[string]string{"isbn": "ISBN must be unique"})
	}

	m := req.ToModel()
	if err := h.DB.Create(m).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
			return helper.JsonValidationError(c, map[string]string{"isbn": "ISBN must be unique"})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create book")
	}
	return helper.JsonCreated(c, m)
}

// =========================================================
// PUT /api/books/:id  (partial update)
// =========================================================
func (h *BooksController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
	}

	var req dto.BookUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMessages(err))
	}

	var m model.BookModel
	if err := h.DB.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch book")
	}

	// Unique ISBN check when it changes
	if req.ISBN != nil && !strings.EqualFold(*req.ISBN, m.ISBN) {
		var cnt int64
		if err := h.DB.Model(&model.BookModel{}).
			Where("lower(isbn) = lower(?) AND id <> ?", *req.ISBN, m.ID).
			Count(&cnt).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check ISBN")
		}
		if cnt > 0 {
			return helper.JsonValidationError(c, map[string]string{"isbn": "ISBN must be unique"})
		}
	}

	req.ApplyToModel(&m)
	if err := h.DB.Save(&m).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
			return helper.JsonValidationError(c, map[string]string{"isbn": "ISBN must be unique"})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update book")
	}
	return helper.JsonOK(c, m)
}

// =========================================================
// DELETE /api/books/:id
// Blocked while any borrowing row references the book.
// =========================================================
func (h *BooksController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
	}

	book, err := h.Lifecycle.DeleteBook(c.UserContext(), uint(id))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonMessage(c, fiber.StatusOK, "A book "+book.Title+" deleted successfully")
}
