package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOffset(t *testing.T) {
	tests := []struct {
		page, pageSize, want int
	}{
		{1, 6, 0},
		{2, 6, 6},
		{3, 6, 12},
		{0, 6, 0},  // pages are 1-based; anything lower clamps
		{-4, 6, 0},
		{3, 10, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pageOffset(tt.page, tt.pageSize), "page=%d size=%d", tt.page, tt.pageSize)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, pageSize, want int
	}{
		{0, 6, 0},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{17, 6, 3},
		{18, 6, 3},
		{-3, 6, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, totalPages(tt.count, tt.pageSize), "count=%d size=%d", tt.count, tt.pageSize)
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%acme%", likePattern("acme"))
	assert.Equal(t, "%%", likePattern(""))
}

func TestFilteredInvoicesVars(t *testing.T) {
	vars := filteredInvoicesVars("pend", 3, 6, DefaultOrderBy())

	assert.Equal(t, "%pend%", vars["search"])
	assert.Equal(t, 6, vars["limit"])
	assert.Equal(t, 12, vars["offset"])
	assert.Equal(t, []map[string]string{{"date": "desc"}}, vars["orderBy"])
}
