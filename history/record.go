// Package history merges physical loans and virtual reading sessions into
// one chronological per-user view and runs the one-way reading-validation
// workflow over both record kinds.
package history

import "time"

// Kind discriminates the two record sources. It is fixed at
// normalization time and decides which store owns later writes.
type Kind string

const (
	KindPhysical Kind = "physical"
	KindVirtual  Kind = "virtual"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindPhysical, KindVirtual:
		return Kind(s), true
	}
	return "", false
}

// Loan status values computed for physical records.
const (
	LoanStatusActive   = "active"
	LoanStatusReturned = "returned"
	LoanStatusOverdue  = "overdue"
)

// ValidationAnswers is the comprehension-quiz payload stored with a
// validated record. Optional fields are nil when left blank.
type ValidationAnswers struct {
	Opinion        string  `json:"opinion"`
	Summary        string  `json:"summary"`
	MainCharacters *string `json:"mainCharacters,omitempty"`
	MainTheme      *string `json:"mainTheme,omitempty"`
	LessonsLearned *string `json:"lessonsLearned,omitempty"`
}

// ReadRecord is the canonical merged-history shape. It is produced by the
// normalizer only and never persisted.
type ReadRecord struct {
	ID             string             `json:"id"`
	Kind           Kind               `json:"kind"`
	SourceRecordID string             `json:"sourceRecordId"`
	BookID         string             `json:"bookId"`
	Title          string             `json:"title"`
	Author         string             `json:"author"`
	Publisher      string             `json:"publisher,omitempty"` // physical only
	Category       string             `json:"category,omitempty"`  // virtual only
	CoverURL       string             `json:"coverUrl"`
	ReadAt         *time.Time         `json:"readAt"`               // nil while a loan is still open
	LoanStatus     string             `json:"loanStatus,omitempty"` // physical only
	IsValidated    bool               `json:"isValidated"`
	ValidatedAt    *time.Time         `json:"validatedAt,omitempty"`
	Answers        *ValidationAnswers `json:"validationAnswers,omitempty"`
}

// RawLoan is the row shape the loan store hands to the engine: loan columns
// joined with the book they reference. Validation fields stay nil when the
// backing schema does not carry them.
type RawLoan struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	BookID     string     `json:"bookId"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Publisher  string     `json:"publisher"`
	CoverURL   string     `json:"coverUrl"`
	BorrowedAt time.Time  `json:"borrowedAt"`
	DueAt      *time.Time `json:"dueAt"`
	ReturnedAt *time.Time `json:"returnedAt"`

	ValidatedAt    *time.Time `json:"validatedAt"`
	Opinion        *string    `json:"opinion"`
	Summary        *string    `json:"summary"`
	MainCharacters *string    `json:"mainCharacters"`
	MainTheme      *string    `json:"mainTheme"`
	LessonsLearned *string    `json:"lessonsLearned"`
}

// RawVirtualRead is the virtual-session counterpart of RawLoan.
type RawVirtualRead struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	BookID   string    `json:"bookId"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Category string    `json:"category"`
	CoverURL string    `json:"coverUrl"`
	OpenedAt time.Time `json:"openedAt"`

	ValidatedAt    *time.Time `json:"validatedAt"`
	Opinion        *string    `json:"opinion"`
	Summary        *string    `json:"summary"`
	MainCharacters *string    `json:"mainCharacters"`
	MainTheme      *string    `json:"mainTheme"`
	LessonsLearned *string    `json:"lessonsLearned"`
}
