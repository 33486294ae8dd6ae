package models

import "time"

type Review struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	BookID  string `gorm:"type:uuid;index;not null" json:"bookId"`
	UserID  string `gorm:"type:uuid;index;not null" json:"userId"`
	Rating  int    `gorm:"not null" json:"rating"` // 1..5
	Comment string `gorm:"type:text" json:"comment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Review) TableName() string { return "lib_reviews" }
