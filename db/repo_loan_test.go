package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"school_library/history"
	"school_library/models"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repo, func()) {
	dbPath := "./test_library_" + t.Name() + ".db"

	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Loan{},
		&models.VirtualRead{},
	)
	require.NoError(t, err)

	repo := NewRepo(gdb)

	cleanup := func() {
		sqlDB, _ := gdb.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return gdb, repo, cleanup
}

func createTestUser(t *testing.T, gdb *gorm.DB, username string) *models.User {
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  username,
		PasswordHash: "x",
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func createTestBook(t *testing.T, gdb *gorm.DB, title string, copies int) *models.Book {
	b := &models.Book{
		ID:          uuid.NewString(),
		Title:       title,
		Author:      "Test Author",
		Publisher:   "Test House",
		Source:      models.BookSourceCatalog,
		TotalCopies: copies,
	}
	require.NoError(t, gdb.Create(b).Error)
	return b
}

func TestIssueLoan_BoundedByCopies(t *testing.T) {
	gdb, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")
	book := createTestBook(t, gdb, "Single Copy", 1)

	loan, err := repo.IssueLoan(ctx, alice.ID, book.ID, nil, "")
	require.NoError(t, err)
	assert.NotNil(t, loan.DueAt) // default loan period applied

	_, err = repo.IssueLoan(ctx, bob.ID, book.ID, nil, "")
	assert.ErrorIs(t, err, ErrNoCopiesAvailable)
}

func TestIssueLoan_RejectsDuplicateHold(t *testing.T) {
	gdb, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	alice := createTestUser(t, gdb, "alice")
	book := createTestBook(t, gdb, "Two Copies", 2)

	_, err := repo.IssueLoan(ctx, alice.ID, book.ID, nil, "")
	require.NoError(t, err)

	_, err = repo.IssueLoan(ctx, alice.ID, book.ID, nil, "")
	assert.ErrorIs(t, err, ErrAlreadyBorrowed)
}

func TestReturnLoan_Idempotent(t *testing.T) {
	gdb, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	alice := createTestUser(t, gdb, "alice")
	book := createTestBook(t, gdb, "Returnable", 1)

	loan, err := repo.IssueLoan(ctx, alice.ID, book.ID, nil, "")
	require.NoError(t, err)

	first, err := repo.ReturnLoan(ctx, loan.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ReturnedAt)

	second, err := repo.ReturnLoan(ctx, loan.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ReturnedAt.Unix(), second.ReturnedAt.Unix())

	// book can be borrowed again once returned
	_, err = repo.IssueLoan(ctx, alice.ID, book.ID, nil, "")
	require.NoError(t, err)
}

func TestLoanStore_ListHistoryJoinsBookFields(t *testing.T) {
	gdb, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	alice := createTestUser(t, gdb, "alice")
	book := createTestBook(t, gdb, "Joined Title", 1)

	loan, err := repo.IssueLoan(ctx, alice.ID, book.ID, nil, "")
	require.NoError(t, err)

	rows, err := repo.Loans().ListHistory(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, loan.ID, rows[0].ID)
	assert.Equal(t, alice.ID, rows[0].UserID)
	assert.Equal(t, "Joined Title", rows[0].Title)
	assert.Equal(t, "Test House", rows[0].Publisher)
	assert.Nil(t, rows[0].ReturnedAt)
	assert.Nil(t, rows[0].ValidatedAt)
}

func TestLoanStore_Validate(t *testing.T) {
	gdb, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	alice := createTestUser(t, gdb, "alice")
	book := createTestBook(t, gdb, "Validated Book", 1)

	loan, err := repo.IssueLoan(ctx, alice.ID, book.ID, nil, "")
	require.NoError(t, err)

	theme := "Courage"
	answers := history.ValidationAnswers{
		Opinion:   "It was a moving story",
		Summary:   "A child overcomes fear with the help of unlikely friends.",
		MainTheme: &theme,
	}
	require.NoError(t, repo.Loans().Validate(ctx, loan.ID, answers))

	got, err := repo.Loans().GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ValidatedAt)
	require.NotNil(t, got.Opinion)
	assert.Equal(t, answers.Opinion, *got.Opinion)
	require.NotNil(t, got.MainTheme)
	assert.Equal(t, theme, *got.MainTheme)

	err = repo.Loans().Validate(ctx, loan.ID, answers)
	assert.ErrorIs(t, err, history.ErrAlreadyValidated)
}

func TestLoanStore_ValidateMissingLoan(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Loans().Validate(context.Background(), uuid.NewString(), history.ValidationAnswers{
		Opinion: "Long enough opinion",
		Summary: "Long enough summary for the required minimum.",
	})
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestLoanStore_GetLoanNotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Loans().GetLoan(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestListLoans_StatusFilters(t *testing.T) {
	gdb, repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	alice := createTestUser(t, gdb, "alice")
	bookA := createTestBook(t, gdb, "Open Book", 1)
	bookB := createTestBook(t, gdb, "Closed Book", 1)

	open, err := repo.IssueLoan(ctx, alice.ID, bookA.ID, nil, "")
	require.NoError(t, err)
	closed, err := repo.IssueLoan(ctx, alice.ID, bookB.ID, nil, "")
	require.NoError(t, err)
	_, err = repo.ReturnLoan(ctx, closed.ID, alice.ID)
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, gdb.Model(&models.Loan{}).Where("id = ?", open.ID).Update("due_at", past).Error)

	openLoans, err := repo.ListLoans(ctx, alice.ID, "", "open")
	require.NoError(t, err)
	require.Len(t, openLoans, 1)
	assert.Equal(t, open.ID, openLoans[0].ID)

	returned, err := repo.ListLoans(ctx, alice.ID, "", "returned")
	require.NoError(t, err)
	require.Len(t, returned, 1)
	assert.Equal(t, closed.ID, returned[0].ID)

	overdue, err := repo.ListLoans(ctx, alice.ID, "", "overdue")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, open.ID, overdue[0].ID)
}
