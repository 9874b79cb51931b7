package model

import "time"

type BorrowerModel struct {
	ID        uint      `json:"id" gorm:"column:id;primaryKey"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	Email     string    `json:"email" gorm:"column:email;not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`
}

func (BorrowerModel) TableName() string { return "borrowers" }
