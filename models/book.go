// models/book.go
package models

import "time"

const BookTable = "lib_books"

// Book source values. Catalog books belong to the physical collection;
// google books are cached rows for titles opened through the external API.
const (
	BookSourceCatalog = "catalog"
	BookSourceGoogle  = "google"
)

type Book struct {
	ID        string  `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string  `gorm:"size:300;not null" json:"title"`
	Author    string  `gorm:"size:255;not null" json:"author"`
	Publisher string  `gorm:"size:255" json:"publisher,omitempty"`
	Category  string  `gorm:"size:120" json:"category,omitempty"`
	ISBN      *string `gorm:"size:20;uniqueIndex" json:"isbn,omitempty"`
	CoverURL  string  `gorm:"size:500" json:"coverUrl,omitempty"`

	Source    string  `gorm:"size:20;not null;default:'catalog'" json:"source"`
	SourceRef *string `gorm:"size:64;uniqueIndex" json:"sourceRef,omitempty"` // Google volume id

	TotalCopies int `gorm:"not null;default:1" json:"totalCopies"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Book) TableName() string { return BookTable }
