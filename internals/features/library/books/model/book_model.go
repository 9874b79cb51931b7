package model

import "time"

type BookModel struct {
	ID            uint      `json:"id" gorm:"column:id;primaryKey"`
	Title         string    `json:"title" gorm:"column:title;not null"`
	Author        string    `json:"author" gorm:"column:author;not null"`
	ISBN          string    `json:"isbn" gorm:"column:isbn;size:13;not null;uniqueIndex"`
	Quantity      int       `json:"quantity" gorm:"column:quantity;not null;default:0"`
	ShelfLocation string    `json:"shelfLocation" gorm:"column:shelf_location;not null;default:'Storage Room'"`
	CreatedAt     time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`
}

func (BookModel) TableName() string { return "books" }
