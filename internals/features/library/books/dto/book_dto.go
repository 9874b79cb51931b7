package dto

import (
	"strings"

	model "perpustakaanku_backend/internals/features/library/books/model"
)

/* =========================
   REQUEST
   ========================= */

type BookCreateRequest struct {
	Title         string  `json:"title" validate:"required,min=3"`
	Author        string  `json:"author" validate:"required,min=3"`
	ISBN          string  `json:"isbn" validate:"required,len=13"`
	Quantity      *int    `json:"quantity" validate:"required,gte=0"`
	ShelfLocation *string `json:"shelfLocation" validate:"omitempty,min=1"`
}

type BookUpdateRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=3"`
	Author        *string `json:"author" validate:"omitempty,min=3"`
	ISBN          *string `json:"isbn" validate:"omitempty,len=13"`
	Quantity      *int    `json:"quantity" validate:"omitempty,gte=0"`
	ShelfLocation *string `json:"shelfLocation" validate:"omitempty,min=1"`
}

// BookSearchQuery is the explicit allow-list for /books/search. Every present
// field becomes a case-insensitive substring condition; absent fields add no
// constraint.
type BookSearchQuery struct {
	Title  *string `query:"title"`
	Author *string `query:"author"`
	ISBN   *string `query:"isbn"`
}

/* =========================
   RESPONSE
   ========================= */

// BookWithAvailability is the list shape: availableCount is computed per
// read (quantity minus open borrowings), never persisted.
type BookWithAvailability struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	ISBN           string `json:"isbn"`
	Quantity       int    `json:"quantity"`
	ShelfLocation  string `json:"shelfLocation"`
	AvailableCount int    `json:"availableCount"`
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

func (r *BookCreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.ISBN = strings.TrimSpace(r.ISBN)
	r.ShelfLocation = trimPtr(r.ShelfLocation)
}

func (r *BookUpdateRequest) Normalize() {
	r.Title = trimPtr(r.Title)
	r.Author = trimPtr(r.Author)
	r.ISBN = trimPtr(r.ISBN)
	r.ShelfLocation = trimPtr(r.ShelfLocation)
}

func (r *BookCreateRequest) ToModel() *model.BookModel {
	m := &model.BookModel{
		Title:    r.Title,
		Author:   r.Author,
		ISBN:     r.ISBN,
		Quantity: *r.Quantity,
	}
	if r.ShelfLocation != nil {
		m.ShelfLocation = *r.ShelfLocation
	} else {
		m.ShelfLocation = "Storage Room"
	}
	return m
}

func (r *BookUpdateRequest) ApplyToModel(m *model.BookModel) {
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.Author != nil {
		m.Author = *r.Author
	}
	if r.ISBN != nil {
		m.ISBN = *r.ISBN
	}
	if r.Quantity != nil {
		m.Quantity = *r.Quantity
	}
	if r.ShelfLocation != nil {
		m.ShelfLocation = *r.ShelfLocation
	}
}
