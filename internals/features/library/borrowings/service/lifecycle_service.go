package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookModel "perpustakaanku_backend/internals/features/library/books/model"
	borrowerModel "perpustakaanku_backend/internals/features/library/borrowers/model"
	model "perpustakaanku_backend/internals/features/library/borrowings/model"
)

// OverdueGracePeriod pushes the overdue cutoff into the past: a loan counts
// as overdue once borrow_to < now - grace. Zero means "overdue the moment
// borrow_to passes"; set to 30*24*time.Hour to report only loans a month
// past due.
const OverdueGracePeriod = 0 * time.Hour

// Failure order per operation is fixed so error precedence stays
// deterministic: borrower → book → zero stock → exhausted capacity.
var (
	ErrBorrowerNotFound  = fiber.NewError(fiber.StatusNotFound, "Borrower not found")
	ErrBookNotFound      = fiber.NewError(fiber.StatusNotFound, "Book not found")
	ErrBookOutOfStock    = fiber.NewError(fiber.StatusUnprocessableEntity, "Book is not available")
	ErrBookFullyBorrowed = fiber.NewError(fiber.StatusBadRequest, "Book is not available")
	ErrBorrowingNotFound = fiber.NewError(fiber.StatusNotFound, "Borrowing not found")
	ErrBookIsBorrowed    = fiber.NewError(fiber.StatusBadRequest, "Cannot delete a book that is borrowed")
	ErrBorrowerHasLoans  = fiber.NewError(fiber.StatusBadRequest, "Cannot delete a borrower with borrowed books")
)

type BorrowInput struct {
	BookID     uint
	BorrowerID uint
	BorrowFrom time.Time
	BorrowTo   time.Time
	Status     *string
}

// LifecycleService owns the borrowing business rules: availability is never
// stored, it is derived from quantity minus the open-borrowing count, so
// every state change here is a plain row insert or delete.
type LifecycleService struct {
	DB *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{DB: db}
}

// lockForUpdate adds SELECT ... FOR UPDATE on postgres. The sqlite test
// store has a single writer and rejects the clause, so it is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Borrow runs the whole precondition chain and the insert in one
// transaction, holding a row lock on the book. Two concurrent borrows of
// the last copy serialize on that lock; the loser re-counts and fails.
func (s *LifecycleService) Borrow(ctx context.Context, in BorrowInput) (*model.BorrowingModel, error) {
	if in.BorrowFrom.IsZero() {
		in.BorrowFrom = time.Now()
	}

	var created model.BorrowingModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var borrower borrowerModel.BorrowerModel
		if err := tx.First(&borrower, in.BorrowerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowerNotFound
			}
			return err
		}

		var book bookModel.BookModel
		if err := lockForUpdate(tx).First(&book, in.BookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		if book.Quantity == 0 {
			return ErrBookOutOfStock
		}

		var open int64
		if err := tx.Model(&model.BorrowingModel{}).
			Where("book_id = ?", book.ID).
			Count(&open).Error; err != nil {
			return err
		}
		if open >= int64(book.Quantity) {
			return ErrBookFullyBorrowed
		}

		created = model.BorrowingModel{
			BookID:     book.ID,
			BorrowerID: borrower.ID,
			BorrowFrom: in.BorrowFrom,
			BorrowTo:   in.BorrowTo,
			Status:     in.Status,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Return deletes the loan row. This is the only way capacity comes back.
func (s *LifecycleService) Return(ctx context.Context, borrowingID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan model.BorrowingModel
		if err := tx.First(&loan, borrowingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowingNotFound
			}
			return err
		}
		return tx.Delete(&loan).Error
	})
}

// DeleteBook removes the book unless any borrowing row still references it.
// Every row is an outstanding loan by construction, so the guard counts all
// of them, not just overdue ones.
func (s *LifecycleService) DeleteBook(ctx context.Context, bookID uint) (*bookModel.BookModel, error) {
	var book bookModel.BookModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		var n int64
		if err := tx.Model(&model.BorrowingModel{}).
			Where("book_id = ?", bookID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrBookIsBorrowed
		}
		return tx.Delete(&book).Error
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBorrower mirrors DeleteBook, keyed on borrower_id.
func (s *LifecycleService) DeleteBorrower(ctx context.Context, borrowerID uint) (*borrowerModel.BorrowerModel, error) {
	var borrower borrowerModel.BorrowerModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&borrower, borrowerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowerNotFound
			}
			return err
		}
		var n int64
		if err := tx.Model(&model.BorrowingModel{}).
			Where("borrower_id = ?", borrowerID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrBorrowerHasLoans
		}
		return tx.Delete(&borrower).Error
	})
	if err != nil {
		return nil, err
	}
	return &borrower, nil
}

// OpenCount reports how many copies of a book are currently out.
func (s *LifecycleService) OpenCount(ctx context.Context, bookID uint) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.BorrowingModel{}).
		Where("book_id = ?", bookID).
		Count(&n).Error
	return n, err
}

// Overdue lists loans whose due date has passed the grace cutoff, with the
// borrower and book preloaded for the enriched response.
func (s *LifecycleService) Overdue(ctx context.Context) ([]model.BorrowingModel, error) {
	cutoff := time.Now().Add(-OverdueGracePeriod)
	var rows []model.BorrowingModel
	err := s.DB.WithContext(ctx).
		Preload("Borrower").
		Preload("Book").
		Where("borrow_to < ?", cutoff).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// InRange lists loans fully inside [start, end]:
// borrow_from >= start AND borrow_to <= end.
func (s *LifecycleService) InRange(ctx context.Context, start, end time.Time) ([]model.BorrowingModel, error) {
	var rows []model.BorrowingModel
	err := s.DB.WithContext(ctx).
		Preload("Borrower").
		Preload("Book").
		Where("borrow_from >= ? AND borrow_to <= ?", start, end).
		Order("id").
		Find(&rows).Error
	return rows, err
}
