package history

import "time"

// Fallbacks applied during normalization so the merger and the UI never
// see empty display fields.
const (
	DefaultCoverURL = "/static/covers/placeholder.png"
	DefaultCategory = "General"
)

// NormalizeLoans maps raw loan rows into canonical read records. Pure; a
// row with missing optional fields gets the documented defaults instead of
// an error.
func NormalizeLoans(rows []RawLoan, now time.Time) []ReadRecord {
	out := make([]ReadRecord, 0, len(rows))
	for _, r := range rows {
		rec := ReadRecord{
			ID:             r.ID,
			Kind:           KindPhysical,
			SourceRecordID: r.ID,
			BookID:         r.BookID,
			Title:          r.Title,
			Author:         r.Author,
			Publisher:      r.Publisher,
			CoverURL:       coverOrDefault(r.CoverURL),
			ReadAt:         r.ReturnedAt,
			LoanStatus:     loanStatus(r, now),
		}
		applyValidation(&rec, r.ValidatedAt, r.Opinion, r.Summary, r.MainCharacters, r.MainTheme, r.LessonsLearned)
		out = append(out, rec)
	}
	return out
}

// NormalizeVirtualReads maps raw virtual-session rows into canonical read
// records. ReadAt is the session creation time, so it is never nil here.
func NormalizeVirtualReads(rows []RawVirtualRead) []ReadRecord {
	out := make([]ReadRecord, 0, len(rows))
	for _, r := range rows {
		opened := r.OpenedAt
		rec := ReadRecord{
			ID:             r.ID,
			Kind:           KindVirtual,
			SourceRecordID: r.ID,
			BookID:         r.BookID,
			Title:          r.Title,
			Author:         r.Author,
			Category:       categoryOrDefault(r.Category),
			CoverURL:       coverOrDefault(r.CoverURL),
			ReadAt:         &opened,
		}
		applyValidation(&rec, r.ValidatedAt, r.Opinion, r.Summary, r.MainCharacters, r.MainTheme, r.LessonsLearned)
		out = append(out, rec)
	}
	return out
}

func loanStatus(r RawLoan, now time.Time) string {
	if r.ReturnedAt != nil {
		return LoanStatusReturned
	}
	if r.DueAt != nil && r.DueAt.Before(now) {
		return LoanStatusOverdue
	}
	return LoanStatusActive
}

func applyValidation(rec *ReadRecord, validatedAt *time.Time, opinion, summary, characters, theme, lessons *string) {
	if validatedAt == nil {
		return
	}
	rec.IsValidated = true
	rec.ValidatedAt = validatedAt
	rec.Answers = &ValidationAnswers{
		Opinion:        deref(opinion),
		Summary:        deref(summary),
		MainCharacters: characters,
		MainTheme:      theme,
		LessonsLearned: lessons,
	}
}

func coverOrDefault(url string) string {
	if url == "" {
		return DefaultCoverURL
	}
	return url
}

func categoryOrDefault(c string) string {
	if c == "" {
		return DefaultCategory
	}
	return c
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
