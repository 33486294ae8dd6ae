// models/loan.go
package models

import "time"

const LoanTable = "lib_loans"

type Loan struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	BookID     string     `gorm:"type:uuid;index;not null" json:"bookId"`
	UserID     string     `gorm:"type:uuid;index;not null" json:"userId"`
	BorrowedAt time.Time  `gorm:"index;not null" json:"borrowedAt"`
	DueAt      *time.Time `json:"dueAt,omitempty"`

	ReturnedAt *time.Time `gorm:"index" json:"returnedAt,omitempty"`
	ReturnedBy *string    `gorm:"type:uuid" json:"returnedBy,omitempty"`

	Note string `gorm:"size:255" json:"note,omitempty"`

	// Reading-validation columns. Added by a later migration on older
	// deployments; every access goes through the schema probe.
	ValidatedAt    *time.Time `gorm:"index" json:"validatedAt,omitempty"`
	Opinion        *string    `gorm:"type:text" json:"opinion,omitempty"`
	Summary        *string    `gorm:"type:text" json:"summary,omitempty"`
	MainCharacters *string    `gorm:"type:text" json:"mainCharacters,omitempty"`
	MainTheme      *string    `gorm:"type:text" json:"mainTheme,omitempty"`
	LessonsLearned *string    `gorm:"type:text" json:"lessonsLearned,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Loan) TableName() string { return LoanTable }
