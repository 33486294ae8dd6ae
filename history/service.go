package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// LoanStore is the physical-loan collaborator. Implementations must return
// ErrNotFound for missing records and ErrSchemaUnsupported /
// ErrAlreadyValidated from Validate with the same meaning as this package.
type LoanStore interface {
	ListHistory(ctx context.Context, userID string) ([]RawLoan, error)
	GetLoan(ctx context.Context, loanID string) (*RawLoan, error)
	Validate(ctx context.Context, loanID string, answers ValidationAnswers) error
}

// VirtualReadStore is the virtual-session collaborator.
type VirtualReadStore interface {
	ListReads(ctx context.Context, userID string) ([]RawVirtualRead, error)
	GetRead(ctx context.Context, id string) (*RawVirtualRead, error)
	Validate(ctx context.Context, id string, answers ValidationAnswers) error
}

// Service is the unified reading history engine.
type Service struct {
	loans   LoanStore
	virtual VirtualReadStore
	now     func() time.Time
}

func NewService(loans LoanStore, virtual VirtualReadStore) *Service {
	return &Service{loans: loans, virtual: virtual, now: time.Now}
}

// UnifiedHistory fetches both sources, normalizes them and returns one
// filtered, ordered, paginated view. The two fetches are independent and
// run concurrently; merge order depends only on the records, not on which
// fetch finishes first.
func (s *Service) UnifiedHistory(ctx context.Context, userID string, opts MergeOptions) (Page, error) {
	var (
		loans []RawLoan
		reads []RawVirtualRead
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		loans, err = s.loans.ListHistory(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		reads, err = s.virtual.ListReads(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	records := NormalizeLoans(loans, s.now())
	records = append(records, NormalizeVirtualReads(reads)...)
	return Merge(records, opts), nil
}

// ValidationTarget resolves a record for the validation form. A record
// owned by someone else is reported as not found.
func (s *Service) ValidationTarget(ctx context.Context, userID string, kind Kind, id string) (*ReadRecord, error) {
	rec, err := s.fetchOwned(ctx, userID, kind, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// SubmitPayload is the raw form input for a validation submission.
type SubmitPayload struct {
	Opinion        string `json:"opinion"`
	Summary        string `json:"summary"`
	MainCharacters string `json:"mainCharacters"`
	MainTheme      string `json:"mainTheme"`
	LessonsLearned string `json:"lessonsLearned"`
}

const (
	minOpinionLen = 10
	minSummaryLen = 20
)

// SubmitValidation runs the one-way unvalidated -> validated transition:
// ownership, state, payload rules, then the store's atomic write. Store
// errors pass through unchanged so callers can tell where a failure came
// from.
func (s *Service) SubmitValidation(ctx context.Context, userID string, kind Kind, id string, payload SubmitPayload) (*ReadRecord, error) {
	rec, err := s.fetchOwned(ctx, userID, kind, id)
	if err != nil {
		return nil, err
	}
	if rec.IsValidated {
		return nil, ErrAlreadyValidated
	}

	answers, err := checkPayload(payload)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindPhysical:
		err = s.loans.Validate(ctx, id, answers)
	case KindVirtual:
		err = s.virtual.Validate(ctx, id, answers)
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	if err != nil {
		return nil, err
	}

	// Read the committed state back rather than patching the in-memory copy.
	return s.fetchOwned(ctx, userID, kind, id)
}

func (s *Service) fetchOwned(ctx context.Context, userID string, kind Kind, id string) (*ReadRecord, error) {
	switch kind {
	case KindPhysical:
		raw, err := s.loans.GetLoan(ctx, id)
		if err != nil {
			return nil, err
		}
		if raw.UserID != userID {
			return nil, ErrNotFound
		}
		recs := NormalizeLoans([]RawLoan{*raw}, s.now())
		return &recs[0], nil
	case KindVirtual:
		raw, err := s.virtual.GetRead(ctx, id)
		if err != nil {
			return nil, err
		}
		if raw.UserID != userID {
			return nil, ErrNotFound
		}
		recs := NormalizeVirtualReads([]RawVirtualRead{*raw})
		return &recs[0], nil
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
}

// checkPayload applies the field rules and reports every violation at
// once. Optional fields are trimmed and dropped entirely when blank.
func checkPayload(p SubmitPayload) (ValidationAnswers, error) {
	var violations []string

	opinion := strings.TrimSpace(p.Opinion)
	if len([]rune(opinion)) < minOpinionLen {
		violations = append(violations, fmt.Sprintf("opinion must be at least %d characters", minOpinionLen))
	}
	summary := strings.TrimSpace(p.Summary)
	if len([]rune(summary)) < minSummaryLen {
		violations = append(violations, fmt.Sprintf("summary must be at least %d characters", minSummaryLen))
	}
	if len(violations) > 0 {
		return ValidationAnswers{}, &PayloadError{Violations: violations}
	}

	return ValidationAnswers{
		Opinion:        opinion,
		Summary:        summary,
		MainCharacters: optional(p.MainCharacters),
		MainTheme:      optional(p.MainTheme),
		LessonsLearned: optional(p.LessonsLearned),
	}, nil
}

func optional(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}
