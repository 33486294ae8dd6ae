// models/virtual_read.go
package models

import "time"

const VirtualReadTable = "lib_virtual_reads"

// VirtualRead records a user opening an externally sourced digital book.
// One row per (user, book).
type VirtualRead struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string    `gorm:"type:uuid;index:idx_virtual_user_book,unique;not null" json:"userId"`
	BookID   string    `gorm:"type:uuid;index:idx_virtual_user_book,unique;not null" json:"bookId"`
	OpenedAt time.Time `gorm:"index;not null" json:"openedAt"`

	// Same deferred-migration caveat as Loan: consult the schema probe
	// before touching these.
	ValidatedAt    *time.Time `gorm:"index" json:"validatedAt,omitempty"`
	Opinion        *string    `gorm:"type:text" json:"opinion,omitempty"`
	Summary        *string    `gorm:"type:text" json:"summary,omitempty"`
	MainCharacters *string    `gorm:"type:text" json:"mainCharacters,omitempty"`
	MainTheme      *string    `gorm:"type:text" json:"mainTheme,omitempty"`
	LessonsLearned *string    `gorm:"type:text" json:"lessonsLearned,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (VirtualRead) TableName() string { return VirtualReadTable }
