package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func datedRecord(id string, readAt *time.Time) ReadRecord {
	return ReadRecord{
		ID:     id,
		Kind:   KindVirtual,
		Title:  "Title " + id,
		Author: "Author " + id,
		ReadAt: readAt,
	}
}

func TestMerge_OrdersByReadAtDescending(t *testing.T) {
	records := []ReadRecord{
		datedRecord("a", ts("2024-01-01T00:00:00Z")),
		datedRecord("b", ts("2024-03-01T00:00:00Z")),
		datedRecord("c", ts("2024-02-01T00:00:00Z")),
	}

	page := Merge(records, MergeOptions{Page: 1})

	require.Len(t, page.Items, 3)
	assert.Equal(t, "b", page.Items[0].ID)
	assert.Equal(t, "c", page.Items[1].ID)
	assert.Equal(t, "a", page.Items[2].ID)
	for i := 1; i < len(page.Items); i++ {
		assert.True(t, page.Items[i-1].ReadAt.After(*page.Items[i].ReadAt))
	}
}

func TestMerge_NilReadAtSortsLastAndStaysStable(t *testing.T) {
	records := []ReadRecord{
		datedRecord("open1", nil),
		datedRecord("dated", ts("2020-06-01T00:00:00Z")),
		datedRecord("open2", nil),
		datedRecord("open3", nil),
	}

	page := Merge(records, MergeOptions{Page: 1})

	require.Len(t, page.Items, 4)
	assert.Equal(t, "dated", page.Items[0].ID)
	// nil readAt records keep their relative input order
	assert.Equal(t, "open1", page.Items[1].ID)
	assert.Equal(t, "open2", page.Items[2].ID)
	assert.Equal(t, "open3", page.Items[3].ID)
}

func TestMerge_PaginationCompleteness(t *testing.T) {
	const n = 45
	records := make([]ReadRecord, 0, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		records = append(records, datedRecord(fmt.Sprintf("r%02d", i), &at))
	}

	first := Merge(records, MergeOptions{Page: 1})
	require.Equal(t, n, first.TotalCount)
	require.Equal(t, 3, first.TotalPages)

	seen := map[string]bool{}
	var collected []ReadRecord
	for p := 1; p <= first.TotalPages; p++ {
		page := Merge(records, MergeOptions{Page: p})
		assert.Equal(t, n, page.TotalCount)
		for _, it := range page.Items {
			require.False(t, seen[it.ID], "duplicate %s", it.ID)
			seen[it.ID] = true
			collected = append(collected, it)
		}
	}
	require.Len(t, collected, n)

	// page beyond the end: empty items, true totals
	past := Merge(records, MergeOptions{Page: 4})
	assert.Empty(t, past.Items)
	assert.Equal(t, n, past.TotalCount)
	assert.Equal(t, 3, past.TotalPages)

	// page below 1 clamps to the first page
	clamped := Merge(records, MergeOptions{Page: 0})
	assert.Equal(t, first.Items, clamped.Items)
}

func TestMerge_SearchFilter(t *testing.T) {
	records := []ReadRecord{
		{ID: "1", Kind: KindPhysical, Title: "The Little Prince", Author: "Saint-Exupery", Publisher: "Gallimard"},
		{ID: "2", Kind: KindVirtual, Title: "Moby Dick", Author: "Melville", Category: "Classics"},
		{ID: "3", Kind: KindVirtual, Title: "Dune", Author: "Herbert", Category: "Science Fiction"},
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"little", []string{"1"}},            // title, case-insensitive
		{"MELVILLE", []string{"2"}},          // author
		{"gallimard", []string{"1"}},         // publisher
		{"classic", []string{"2"}},           // category
		{"  ", []string{"1", "2", "3"}},      // whitespace search is a no-op
		{"nothing-matches", []string{}},      // empty result, not an error
		{"i", []string{"1", "2", "3"}},       // substring across fields
	}
	for _, tt := range tests {
		page := Merge(records, MergeOptions{Search: tt.search, Page: 1})
		got := make([]string, 0, len(page.Items))
		for _, it := range page.Items {
			got = append(got, it.ID)
		}
		assert.ElementsMatch(t, tt.want, got, "search %q", tt.search)
	}
}

func TestMerge_KindFilter(t *testing.T) {
	records := []ReadRecord{
		{ID: "p", Kind: KindPhysical, Title: "A"},
		{ID: "v", Kind: KindVirtual, Title: "B"},
	}

	page := Merge(records, MergeOptions{Kind: KindPhysical, Page: 1})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p", page.Items[0].ID)

	page = Merge(records, MergeOptions{Kind: KindVirtual, Page: 1})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "v", page.Items[0].ID)
}

func TestMerge_NoRecords(t *testing.T) {
	page := Merge(nil, MergeOptions{Page: 1})
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalCount)
	assert.Zero(t, page.TotalPages)
}

func TestMerge_ActiveLoanAndValidatedVirtualRead(t *testing.T) {
	validatedAt := ts("2024-01-02T00:00:00Z")
	records := []ReadRecord{
		{ID: "loan", Kind: KindPhysical, Title: "Physical", ReadAt: nil, LoanStatus: LoanStatusActive},
		{ID: "read", Kind: KindVirtual, Title: "Virtual", ReadAt: ts("2024-01-01T00:00:00Z"),
			IsValidated: true, ValidatedAt: validatedAt},
	}

	page := Merge(records, MergeOptions{Page: 1})

	require.Len(t, page.Items, 2)
	assert.Equal(t, "read", page.Items[0].ID) // dated first
	assert.Equal(t, "loan", page.Items[1].ID) // open loan last
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
}
