package dto

import (
	"time"

	model "perpustakaanku_backend/internals/features/library/borrowings/model"
)

/* =========================
   REQUEST
   ========================= */

type BorrowRequest struct {
	BookID     *uint      `json:"bookId" validate:"required"`
	BorrowerID *uint      `json:"borrowerId" validate:"required"`
	BorrowFrom *time.Time `json:"borrowFrom"`
	BorrowTo   *time.Time `json:"borrowTo" validate:"required"`
	Status     *string    `json:"status" validate:"omitempty,min=1"`
}

type BorrowingUpdateRequest struct {
	Status *string `json:"status" validate:"omitempty,min=1"`
}

/* =========================
   RESPONSE
   ========================= */

type BorrowerLite struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type BookLite struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type BorrowingResponse struct {
	ID         uint          `json:"id"`
	BookID     uint          `json:"bookId"`
	BorrowerID uint          `json:"borrowerId"`
	BorrowFrom time.Time     `json:"borrowFrom"`
	BorrowTo   time.Time     `json:"borrowTo"`
	Status     *string       `json:"status,omitempty"`
	Borrower   *BorrowerLite `json:"borrower,omitempty"`
	Book       *BookLite     `json:"book,omitempty"`
}

// Analytics rows carry a wider slice of both sides for reporting.
type AnalyticsBorrower struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AnalyticsBook struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	ISBN  string `json:"isbn"`
}

type AnalyticsRow struct {
	ID         uint               `json:"id"`
	BorrowFrom time.Time          `json:"borrowFrom"`
	BorrowTo   time.Time          `json:"borrowTo"`
	Status     *string            `json:"status,omitempty"`
	Borrower   *AnalyticsBorrower `json:"borrower,omitempty"`
	Book       *AnalyticsBook     `json:"book,omitempty"`
}

type AnalyticsResponse struct {
	Data       []AnalyticsRow `json:"data"`
	ExportLink *string        `json:"exportLink,omitempty"`
}

/* =========================
   MAPPER
   ========================= */

func ToBorrowingResponse(m *model.BorrowingModel) BorrowingResponse {
	resp := BorrowingResponse{
		ID:         m.ID,
		BookID:     m.BookID,
		BorrowerID: m.BorrowerID,
		BorrowFrom: m.BorrowFrom,
		BorrowTo:   m.BorrowTo,
		Status:     m.Status,
	}
	if m.Borrower != nil {
		resp.Borrower = &BorrowerLite{ID: m.Borrower.ID, Name: m.Borrower.Name}
	}
	if m.Book != nil {
		resp.Book = &BookLite{ID: m.Book.ID, Title: m.Book.Title}
	}
	return resp
}

func ToBorrowingResponses(rows []model.BorrowingModel) []BorrowingResponse {
	out := make([]BorrowingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToBorrowingResponse(&rows[i]))
	}
	return out
}

func ToAnalyticsRow(m *model.BorrowingModel) AnalyticsRow {
	row := AnalyticsRow{
		ID:         m.ID,
		BorrowFrom: m.BorrowFrom,
		BorrowTo:   m.BorrowTo,
		Status:     m.Status,
	}
	if m.Borrower != nil {
		row.Borrower = &AnalyticsBorrower{ID: m.Borrower.ID, Name: m.Borrower.Name, Email: m.Borrower.Email}
	}
	if m.Book != nil {
		row.Book = &AnalyticsBook{ID: m.Book.ID, Title: m.Book.Title, ISBN: m.Book.ISBN}
	}
	return row
}

func ToAnalyticsRows(rows []model.BorrowingModel) []AnalyticsRow {
	out := make([]AnalyticsRow, 0, len(rows))
	for i := range rows {
		out = append(out, ToAnalyticsRow(&rows[i]))
	}
	return out
}
