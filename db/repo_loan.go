// db/repo_loan.go
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"school_library/history"
	"school_library/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNoCopiesAvailable = errors.New("no copies available")
	ErrAlreadyBorrowed   = errors.New("user already holds this book")
)

const defaultLoanPeriod = 14 * 24 * time.Hour

// IssueLoan opens a loan inside one transaction: lock the book row, check
// the open-loan count against total copies, reject duplicates, create.
func (r *Repo) IssueLoan(ctx context.Context, userID, bookID string, dueAt *time.Time, note string) (*models.Loan, error) {
	var loan *models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ? AND source = ?", bookID, models.BookSourceCatalog).Error; err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&models.Loan{}).
			Where("book_id = ? AND returned_at IS NULL", bookID).
			Count(&open).Error; err != nil {
			return err
		}
		if open >= int64(b.TotalCopies) {
			return ErrNoCopiesAvailable
		}

		var mine int64
		if err := tx.Model(&models.Loan{}).
			Where("book_id = ? AND user_id = ? AND returned_at IS NULL", bookID, userID).
			Count(&mine).Error; err != nil {
			return err
		}
		if mine > 0 {
			return ErrAlreadyBorrowed
		}

		now := time.Now().UTC()
		if dueAt == nil {
			d := now.Add(defaultLoanPeriod)
			dueAt = &d
		}
		l := &models.Loan{
			ID:         uuid.NewString(),
			BookID:     bookID,
			UserID:     userID,
			BorrowedAt: now,
			DueAt:      dueAt,
			Note:       note,
		}
		if err := tx.Create(l).Error; err != nil {
			return err
		}
		loan = l
		return nil
	})
	return loan, err
}

// ReturnLoan closes a loan. Idempotent: returning twice yields the same
// closed loan.
func (r *Repo) ReturnLoan(ctx context.Context, loanID string, returnedBy string) (*models.Loan, error) {
	var l models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "id = ?", loanID).Error; err != nil {
			return err
		}
		if l.ReturnedAt != nil {
			return nil
		}
		now := time.Now().UTC()
		l.ReturnedAt = &now
		l.ReturnedBy = &returnedBy
		return tx.Save(&l).Error
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repo) ListLoans(ctx context.Context, userID, bookID, status string) ([]models.Loan, error) {
	q := r.DB.WithContext(ctx).Model(&models.Loan{}).Order("borrowed_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if bookID != "" {
		q = q.Where("book_id = ?", bookID)
	}
	switch status {
	case "open":
		q = q.Where("returned_at IS NULL")
	case "returned":
		q = q.Where("returned_at IS NOT NULL")
	case "overdue":
		q = q.Where("returned_at IS NULL AND due_at IS NOT NULL AND due_at < ?", time.Now().UTC())
	}
	var ls []models.Loan
	if err := q.Find(&ls).Error; err != nil {
		return nil, err
	}
	return ls, nil
}

// LoanStore adapts the loan tables to the history engine contract.
type LoanStore struct {
	db    *gorm.DB
	probe *SchemaProbe
}

const loanBaseColumns = `
	l.id, l.user_id, l.book_id, l.borrowed_at, l.due_at, l.returned_at,
	b.title, b.author, b.publisher, b.cover_url`

const loanValidationColumns = `
	l.validated_at, l.opinion, l.summary,
	l.main_characters, l.main_theme, l.lessons_learned`

func (s *LoanStore) historyQuery(ctx context.Context) *gorm.DB {
	cols := loanBaseColumns
	if s.probe.SupportsValidation(StoreLoans) {
		cols += "," + loanValidationColumns
	}
	return s.db.WithContext(ctx).
		Table(models.LoanTable+" l").
		Select(cols).
		Joins(fmt.Sprintf("JOIN %s b ON b.id = l.book_id", models.BookTable))
}

func (s *LoanStore) ListHistory(ctx context.Context, userID string) ([]history.RawLoan, error) {
	var rows []history.RawLoan
	err := s.historyQuery(ctx).
		Where("l.user_id = ?", userID).
		Order("l.borrowed_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *LoanStore) GetLoan(ctx context.Context, loanID string) (*history.RawLoan, error) {
	var rows []history.RawLoan
	if err := s.historyQuery(ctx).
		Where("l.id = ?", loanID).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, history.ErrNotFound
	}
	return &rows[0], nil
}

// Validate performs the one-way validation write as a single transaction:
// re-check existence and state inside the boundary, then a conditional
// update so two concurrent submissions cannot both win.
func (s *LoanStore) Validate(ctx context.Context, loanID string, answers history.ValidationAnswers) error {
	if !s.probe.SupportsValidation(StoreLoans) {
		return history.ErrSchemaUnsupported
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l models.Loan
		if err := tx.First(&l, "id = ?", loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return history.ErrNotFound
			}
			return err
		}
		if l.ValidatedAt != nil {
			return history.ErrAlreadyValidated
		}
		res := tx.Model(&models.Loan{}).
			Where("id = ? AND validated_at IS NULL", loanID).
			Updates(map[string]any{
				"validated_at":    time.Now().UTC(),
				"opinion":         answers.Opinion,
				"summary":         answers.Summary,
				"main_characters": answers.MainCharacters,
				"main_theme":      answers.MainTheme,
				"lessons_learned": answers.LessonsLearned,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return history.ErrAlreadyValidated
		}
		return nil
	})
}
