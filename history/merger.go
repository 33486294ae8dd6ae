package history

import (
	"sort"
	"strings"
)

// PageSize is fixed for the unified history view.
const PageSize = 20

type MergeOptions struct {
	Search string
	Kind   Kind // empty = both kinds
	Page   int  // 1-indexed; values below 1 clamp to 1
}

type Page struct {
	Items      []ReadRecord `json:"items"`
	TotalCount int          `json:"totalCount"`
	TotalPages int          `json:"totalPages"`
}

// Merge filters, orders and paginates normalized records. Ordering is by
// ReadAt descending; records with nil ReadAt (open loans) sort after every
// dated record, keeping their relative input order. A page past the end
// returns empty items with the true totals.
func Merge(records []ReadRecord, opts MergeOptions) Page {
	filtered := make([]ReadRecord, 0, len(records))
	term := strings.ToLower(strings.TrimSpace(opts.Search))
	for _, r := range records {
		if opts.Kind != "" && r.Kind != opts.Kind {
			continue
		}
		if term != "" && !matches(r, term) {
			continue
		}
		filtered = append(filtered, r)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return readAtUnix(filtered[i]) > readAtUnix(filtered[j])
	})

	total := len(filtered)
	if total == 0 {
		return Page{Items: []ReadRecord{}}
	}
	totalPages := (total + PageSize - 1) / PageSize

	page := opts.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= total {
		return Page{Items: []ReadRecord{}, TotalCount: total, TotalPages: totalPages}
	}
	end := start + PageSize
	if end > total {
		end = total
	}
	return Page{Items: filtered[start:end], TotalCount: total, TotalPages: totalPages}
}

// nil ReadAt counts as the epoch so open loans land last on a
// recency-descending sort.
func readAtUnix(r ReadRecord) int64 {
	if r.ReadAt == nil {
		return 0
	}
	return r.ReadAt.Unix()
}

func matches(r ReadRecord, term string) bool {
	for _, f := range []string{r.Title, r.Author, r.Publisher, r.Category} {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
