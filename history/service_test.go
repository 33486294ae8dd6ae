package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoanStore struct {
	loans       map[string]*RawLoan
	listErr     error
	validateErr error
}

func (f *fakeLoanStore) ListHistory(_ context.Context, userID string) ([]RawLoan, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []RawLoan
	for _, l := range f.loans {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLoanStore) GetLoan(_ context.Context, id string) (*RawLoan, error) {
	l, ok := f.loans[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLoanStore) Validate(_ context.Context, id string, answers ValidationAnswers) error {
	if f.validateErr != nil {
		return f.validateErr
	}
	l, ok := f.loans[id]
	if !ok {
		return ErrNotFound
	}
	if l.ValidatedAt != nil {
		return ErrAlreadyValidated
	}
	at := time.Now()
	l.ValidatedAt = &at
	l.Opinion = &answers.Opinion
	l.Summary = &answers.Summary
	l.MainCharacters = answers.MainCharacters
	l.MainTheme = answers.MainTheme
	l.LessonsLearned = answers.LessonsLearned
	return nil
}

type fakeVirtualStore struct {
	reads       map[string]*RawVirtualRead
	listErr     error
	validateErr error
}

func (f *fakeVirtualStore) ListReads(_ context.Context, userID string) ([]RawVirtualRead, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []RawVirtualRead
	for _, r := range f.reads {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeVirtualStore) GetRead(_ context.Context, id string) (*RawVirtualRead, error) {
	r, ok := f.reads[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeVirtualStore) Validate(_ context.Context, id string, answers ValidationAnswers) error {
	if f.validateErr != nil {
		return f.validateErr
	}
	r, ok := f.reads[id]
	if !ok {
		return ErrNotFound
	}
	if r.ValidatedAt != nil {
		return ErrAlreadyValidated
	}
	at := time.Now()
	r.ValidatedAt = &at
	r.Opinion = &answers.Opinion
	r.Summary = &answers.Summary
	return nil
}

func newFixture() (*Service, *fakeLoanStore, *fakeVirtualStore) {
	returned := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	loans := &fakeLoanStore{loans: map[string]*RawLoan{
		"loan-1": {ID: "loan-1", UserID: "alice", BookID: "b1", Title: "Matilda",
			Author: "Dahl", BorrowedAt: returned.Add(-7 * 24 * time.Hour)},
		"loan-2": {ID: "loan-2", UserID: "bob", BookID: "b2", Title: "Holes",
			Author: "Sachar", BorrowedAt: returned.Add(-3 * 24 * time.Hour), ReturnedAt: &returned},
	}}
	virtual := &fakeVirtualStore{reads: map[string]*RawVirtualRead{
		"read-1": {ID: "read-1", UserID: "alice", BookID: "b3", Title: "Heidi",
			Author: "Spyri", OpenedAt: returned.Add(-24 * time.Hour)},
	}}
	return NewService(loans, virtual), loans, virtual
}

func validPayload() SubmitPayload {
	return SubmitPayload{
		Opinion: "A really wonderful book",
		Summary: "The story follows a gifted child through a difficult school year.",
	}
}

func TestUnifiedHistory_MergesBothSources(t *testing.T) {
	svc, _, _ := newFixture()

	page, err := svc.UnifiedHistory(context.Background(), "alice", MergeOptions{Page: 1})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	// dated virtual read first, open loan last
	assert.Equal(t, "read-1", page.Items[0].ID)
	assert.Equal(t, KindVirtual, page.Items[0].Kind)
	assert.Equal(t, "loan-1", page.Items[1].ID)
	assert.Equal(t, KindPhysical, page.Items[1].Kind)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
}

func TestUnifiedHistory_StoreErrorPropagates(t *testing.T) {
	svc, loans, _ := newFixture()
	boom := errors.New("connection reset")
	loans.listErr = boom

	_, err := svc.UnifiedHistory(context.Background(), "alice", MergeOptions{Page: 1})
	assert.ErrorIs(t, err, boom)
}

func TestSubmitValidation_Succeeds(t *testing.T) {
	svc, loans, _ := newFixture()

	rec, err := svc.SubmitValidation(context.Background(), "alice", KindPhysical, "loan-1", SubmitPayload{
		Opinion:        "  A really wonderful book  ",
		Summary:        "The story follows a gifted child through a difficult school year.",
		MainCharacters: "Matilda, Miss Honey",
		MainTheme:      "   ", // blank optional stored as null
	})
	require.NoError(t, err)

	assert.True(t, rec.IsValidated)
	require.NotNil(t, rec.Answers)
	assert.Equal(t, "A really wonderful book", rec.Answers.Opinion)
	require.NotNil(t, rec.Answers.MainCharacters)
	assert.Nil(t, rec.Answers.MainTheme)
	require.NotNil(t, loans.loans["loan-1"].ValidatedAt)
}

func TestSubmitValidation_SecondSubmissionRejected(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.SubmitValidation(context.Background(), "alice", KindPhysical, "loan-1", validPayload())
	require.NoError(t, err)

	_, err = svc.SubmitValidation(context.Background(), "alice", KindPhysical, "loan-1", validPayload())
	assert.ErrorIs(t, err, ErrAlreadyValidated)
}

func TestSubmitValidation_OwnershipIndistinguishableFromMissing(t *testing.T) {
	svc, _, _ := newFixture()

	// bob's loan submitted by alice
	_, notOwned := svc.SubmitValidation(context.Background(), "alice", KindPhysical, "loan-2", validPayload())
	// id that does not exist at all
	_, missing := svc.SubmitValidation(context.Background(), "alice", KindPhysical, "loan-404", validPayload())

	assert.ErrorIs(t, notOwned, ErrNotFound)
	assert.ErrorIs(t, missing, ErrNotFound)
	assert.Equal(t, notOwned.Error(), missing.Error())
}

func TestSubmitValidation_BatchedPayloadViolations(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.SubmitValidation(context.Background(), "alice", KindPhysical, "loan-1", SubmitPayload{
		Opinion: "ok",
		Summary: "too short",
	})

	var payloadErr *PayloadError
	require.ErrorAs(t, err, &payloadErr)
	require.Len(t, payloadErr.Violations, 2)
	assert.Contains(t, payloadErr.Violations[0], "opinion")
	assert.Contains(t, payloadErr.Violations[1], "summary")
}

func TestSubmitValidation_SchemaUnsupportedPassesThrough(t *testing.T) {
	svc, _, virtual := newFixture()
	virtual.validateErr = ErrSchemaUnsupported

	_, err := svc.SubmitValidation(context.Background(), "alice", KindVirtual, "read-1", validPayload())
	assert.ErrorIs(t, err, ErrSchemaUnsupported)
}

func TestValidationTarget_Ownership(t *testing.T) {
	svc, _, _ := newFixture()

	rec, err := svc.ValidationTarget(context.Background(), "alice", KindVirtual, "read-1")
	require.NoError(t, err)
	assert.Equal(t, "read-1", rec.ID)
	assert.False(t, rec.IsValidated)

	_, err = svc.ValidationTarget(context.Background(), "bob", KindVirtual, "read-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
