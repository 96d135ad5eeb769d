package models

import "time"

// Family is an isolated ownership scope containing its own members and
// events. Families are never merged automatically; cross-family spouse links
// are materialized as cloned member rows instead.
type Family struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description *string   `json:"description"`
	FamilyCode  string    `json:"family_code" gorm:"size:50;uniqueIndex:idx_families_code"`
	CreatedBy   *uint     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Family) TableName() string {
	return "families"
}
