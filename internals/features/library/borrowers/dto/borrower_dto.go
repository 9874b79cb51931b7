package dto

import (
	"strings"
	"time"

	model "perpustakaanku_backend/internals/features/library/borrowers/model"
)

/* =========================
   REQUEST
   ========================= */

type BorrowerCreateRequest struct {
	Name  string `json:"name" validate:"required,min=3"`
	Email string `json:"email" validate:"required,email"`
}

type BorrowerUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=3"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// BorrowedBooksQuery: optional partial matches combined (OR) with the path id.
type BorrowedBooksQuery struct {
	Name  *string `query:"name" validate:"omitempty,min=3"`
	Email *string `query:"email" validate:"omitempty,email"`
}

/* =========================
   RESPONSE
   ========================= */

type BorrowedBookLite struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

type BorrowedLoan struct {
	ID         uint              `json:"id"`
	BorrowFrom time.Time         `json:"borrowFrom"`
	BorrowTo   time.Time         `json:"borrowTo"`
	Status     *string           `json:"status,omitempty"`
	Book       *BorrowedBookLite `json:"book,omitempty"`
}

type BorrowedBooksResponse struct {
	ID         uint           `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Borrowings []BorrowedLoan `json:"borrowings"`
}

/* =========================
   NORMALIZER & MAPPER
   ========================= */

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (r *BorrowerCreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func (r *BorrowerUpdateRequest) Normalize() {
	r.Name = trimPtr(r.Name)
	r.Email = trimPtr(r.Email)
}

func (r *BorrowerCreateRequest) ToModel() *model.BorrowerModel {
	return &model.BorrowerModel{
		Name:  r.Name,
		Email: r.Email,
	}
}

func (r *BorrowerUpdateRequest) ApplyToModel(m *model.BorrowerModel) {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Email != nil {
		m.Email = *r.Email
	}
}
