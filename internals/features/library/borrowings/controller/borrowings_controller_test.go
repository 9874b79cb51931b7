package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	database "perpustakaanku_backend/internals/databases"
	bookModel "perpustakaanku_backend/internals/features/library/books/model"
	borrowerModel "perpustakaanku_backend/internals/features/library/borrowers/model"
	borrowingModel "perpustakaanku_backend/internals/features/library/borrowings/model"
	routes "perpustakaanku_backend/internals/route"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.MigrateOn(db))

	app := fiber.New()
	routes.SetupRoutes(app, db)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func seedBookAndBorrower(t *testing.T, db *gorm.DB, quantity int) (*bookModel.BookModel, *borrowerModel.BorrowerModel) {
	t.Helper()
	book := &bookModel.BookModel{
		Title: "Book 1", Author: "Author 1", ISBN: "1234567890123",
		Quantity: quantity, ShelfLocation: "Storage Room",
	}
	require.NoError(t, db.Create(book).Error)
	borrower := &borrowerModel.BorrowerModel{Name: "Jane Doe", Email: "jane@x.com"}
	require.NoError(t, db.Create(borrower).Error)
	return book, borrower
}

// Full lifecycle: create → borrow → guarded delete → return → delete.
func TestBorrowingLifecycleScenario(t *testing.T) {
	app, _ := setupApp(t)

	code, raw := doJSON(t, app, http.MethodPost, "/api/books",
		`{"title":"Book 1","author":"Author 1","isbn":"1234567890123","quantity":10}`)
	require.Equal(t, http.StatusCreated, code)
	var book struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &book))

	code, raw = doJSON(t, app, http.MethodPost, "/api/borrowers",
		`{"name":"Jane Doe","email":"jane@x.com"}`)
	require.Equal(t, http.StatusCreated, code)
	var borrower struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &borrower))

	availableCount := func() int {
		code, raw := doJSON(t, app, http.MethodGet, "/api/books", "")
		require.Equal(t, http.StatusOK, code)
		var books []struct {
			AvailableCount int `json:"availableCount"`
		}
		require.NoError(t, json.Unmarshal(raw, &books))
		require.Len(t, books, 1)
		return books[0].AvailableCount
	}
	assert.Equal(t, 10, availableCount())

	now := time.Now().UTC().Format(time.RFC3339)
	due := time.Now().UTC().Add(30 * 24 * time.Hour).Format(time.RFC3339)
	code, raw = doJSON(t, app, http.MethodPost, "/api/borrowing",
		fmt.Sprintf(`{"bookId":%d,"borrowerId":%d,"borrowFrom":%q,"borrowTo":%q}`,
			book.ID, borrower.ID, now, due))
	require.Equal(t, http.StatusCreated, code)
	var loan struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &loan))

	assert.Equal(t, 9, availableCount())

	code, raw = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/books/%d", book.ID), "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(raw), "Cannot delete a book that is borrowed")

	code, raw = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/borrowing/%d", loan.ID), "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), "Book returned successfully")

	code, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/books/%d", book.ID), "")
	assert.Equal(t, http.StatusOK, code)
}

func TestBorrowPreconditionOrder(t *testing.T) {
	app, db := setupApp(t)
	book, borrower := seedBookAndBorrower(t, db, 0)
	due := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)

	// borrower checked first
	code, raw := doJSON(t, app, http.MethodPost, "/api/borrowing",
		fmt.Sprintf(`{"bookId":%d,"borrowerId":999,"borrowTo":%q}`, book.ID, due))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(raw), "Borrower not found")

	// then book
	code, raw = doJSON(t, app, http.MethodPost, "/api/borrowing",
		fmt.Sprintf(`{"bookId":999,"borrowerId":%d,"borrowTo":%q}`, borrower.ID, due))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(raw), "Book not found")

	// zero stock is a 422
	code, raw = doJSON(t, app, http.MethodPost, "/api/borrowing",
		fmt.Sprintf(`{"bookId":%d,"borrowerId":%d,"borrowTo":%q}`, book.ID, borrower.ID, due))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(raw), "Book is not available")
}

func TestBorrowValidation(t *testing.T) {
	app, _ := setupApp(t)
	code, raw := doJSON(t, app, http.MethodPost, "/api/borrowing", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "bookId")
	assert.Contains(t, fields, "borrowerId")
	assert.Contains(t, fields, "borrowTo")
}

func TestReturnInvalidID(t *testing.T) {
	app, _ := setupApp(t)
	code, raw := doJSON(t, app, http.MethodDelete, "/api/borrowing/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(raw), "Please provide a valid id")

	code, _ = doJSON(t, app, http.MethodDelete, "/api/borrowing/999", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListBorrowings(t *testing.T) {
	app, db := setupApp(t)

	code, _ := doJSON(t, app, http.MethodGet, "/api/borrowing", "")
	assert.Equal(t, http.StatusNotFound, code)

	book, borrower := seedBookAndBorrower(t, db, 1)
	loan := &borrowingModel.BorrowingModel{
		BookID: book.ID, BorrowerID: borrower.ID,
		BorrowFrom: time.Now(), BorrowTo: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(loan).Error)

	code, raw := doJSON(t, app, http.MethodGet, "/api/borrowing", "")
	require.Equal(t, http.StatusOK, code)

	var rows []struct {
		ID       uint `json:"id"`
		Borrower struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"borrower"`
		Book struct {
			ID    uint   `json:"id"`
			Title string `json:"title"`
		} `json:"book"`
	}
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Doe", rows[0].Borrower.Name)
	assert.Equal(t, "Book 1", rows[0].Book.Title)
}

func TestOverdueEndpoint(t *testing.T) {
	app, db := setupApp(t)

	code, raw := doJSON(t, app, http.MethodGet, "/api/borrowing/overdue", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(raw), "No books are overdue")

	book, borrower := seedBookAndBorrower(t, db, 1)
	loan := &borrowingModel.BorrowingModel{
		BookID: book.ID, BorrowerID: borrower.ID,
		BorrowFrom: time.Now().Add(-48 * time.Hour),
		BorrowTo:   time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(loan).Error)

	code, raw = doJSON(t, app, http.MethodGet, "/api/borrowing/overdue", "")
	require.Equal(t, http.StatusOK, code)

	var rows []struct {
		ID       uint `json:"id"`
		Borrower struct {
			Name string `json:"name"`
		} `json:"borrower"`
		Book struct {
			Title string `json:"title"`
		} `json:"book"`
	}
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Doe", rows[0].Borrower.Name)
	assert.Equal(t, "Book 1", rows[0].Book.Title)
}

func TestUpdateBorrowingStatus(t *testing.T) {
	app, db := setupApp(t)
	book, borrower := seedBookAndBorrower(t, db, 1)
	loan := &borrowingModel.BorrowingModel{
		BookID: book.ID, BorrowerID: borrower.ID,
		BorrowFrom: time.Now(), BorrowTo: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(loan).Error)

	code, _ := doJSON(t, app, http.MethodPut, "/api/borrowing/abc", `{"status":"extended"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, app, http.MethodPut, "/api/borrowing/999", `{"status":"extended"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, raw := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/borrowing/%d", loan.ID),
		`{"status":"extended"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), "Book 1")

	var reloaded borrowingModel.BorrowingModel
	require.NoError(t, db.First(&reloaded, loan.ID).Error)
	require.NotNil(t, reloaded.Status)
	assert.Equal(t, "extended", *reloaded.Status)
}

func TestAnalyticsValidation(t *testing.T) {
	app, _ := setupApp(t)
	code, raw := doJSON(t, app, http.MethodGet, "/api/borrowing/analytics", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "startDate")
	assert.Contains(t, fields, "endDate")
}

func TestAnalyticsWithExportLink(t *testing.T) {
	app, db := setupApp(t)
	book, borrower := seedBookAndBorrower(t, db, 1)
	loan := &borrowingModel.BorrowingModel{
		BookID: book.ID, BorrowerID: borrower.ID,
		BorrowFrom: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		BorrowTo:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(loan).Error)

	code, raw := doJSON(t, app, http.MethodGet,
		"/api/borrowing/analytics?startDate=2025-01-01&endDate=2025-01-31&exportData=true", "")
	require.Equal(t, http.StatusOK, code)

	var resp struct {
		Data []struct {
			Borrower struct {
				Email string `json:"email"`
			} `json:"borrower"`
			Book struct {
				ISBN string `json:"isbn"`
			} `json:"book"`
		} `json:"data"`
		ExportLink *string `json:"exportLink"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "jane@x.com", resp.Data[0].Borrower.Email)
	assert.Equal(t, "1234567890123", resp.Data[0].Book.ISBN)
	require.NotNil(t, resp.ExportLink)
	assert.Contains(t, *resp.ExportLink, "/api/borrowing/export?startDate=2025-01-01&endDate=2025-01-31")

	// without the flag there is no link
	code, raw = doJSON(t, app, http.MethodGet,
		"/api/borrowing/analytics?startDate=2025-01-01&endDate=2025-01-31", "")
	require.Equal(t, http.StatusOK, code)
	resp.ExportLink = nil // Unmarshal leaves the field untouched when the key is absent
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Nil(t, resp.ExportLink)
}

func TestExportSpreadsheet(t *testing.T) {
	app, db := setupApp(t)
	book, borrower := seedBookAndBorrower(t, db, 1)
	loan := &borrowingModel.BorrowingModel{
		BookID: book.ID, BorrowerID: borrower.ID,
		BorrowFrom: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		BorrowTo:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(loan).Error)

	code, _ := doJSON(t, app, http.MethodGet, "/api/borrowing/export?startDate=bogus", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	req := httptest.NewRequest(http.MethodGet,
		"/api/borrowing/export?startDate=2025-01-01&endDate=2025-01-31", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "report-")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "borrowings.xlsx")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "#", header)

	title, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Book 1", title)

	email, err := f.GetCellValue(sheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", email)

	from, err := f.GetCellValue(sheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-05", from)
}
