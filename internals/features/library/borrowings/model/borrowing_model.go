package model

import (
	"time"

	bookModel "perpustakaanku_backend/internals/features/library/books/model"
	borrowerModel "perpustakaanku_backend/internals/features/library/borrowers/model"
)

// A row in borrowings IS the open loan: returning a book deletes the row,
// so availability can always be derived from a count over this table.
type BorrowingModel struct {
	ID         uint      `json:"id" gorm:"column:id;primaryKey"`
	BookID     uint      `json:"bookId" gorm:"column:book_id;not null;index"`
	BorrowerID uint      `json:"borrowerId" gorm:"column:borrower_id;not null;index"`
	BorrowFrom time.Time `json:"borrowFrom" gorm:"column:borrow_from;not null"`
	BorrowTo   time.Time `json:"borrowTo" gorm:"column:borrow_to;not null"`
	Status     *string   `json:"status,omitempty" gorm:"column:status"`
	CreatedAt  time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`

	Book     *bookModel.BookModel         `json:"book,omitempty" gorm:"foreignKey:BookID"`
	Borrower *borrowerModel.BorrowerModel `json:"borrower,omitempty" gorm:"foreignKey:BorrowerID"`
}

func (BorrowingModel) TableName() string { return "borrowings" }
