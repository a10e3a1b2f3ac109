package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to InterestStatus
		want     bool
	}{
		{InterestPending, InterestShortlisted, true},
		{InterestPending, InterestApproved, true},
		{InterestPending, InterestRejected, true},
		{InterestPending, InterestWithdrawn, true},
		{InterestShortlisted, InterestApproved, true},
		{InterestShortlisted, InterestWithdrawn, true},
		{InterestShortlisted, InterestPending, false},
		{InterestApproved, InterestRejected, false},
		{InterestRejected, InterestApproved, false},
		{InterestWithdrawn, InterestPending, false},
		{InterestApproved, InterestWithdrawn, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 4, p.TotalPages)
	assert.EqualValues(t, 35, p.TotalItems)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)

	last := NewPagination(4, 10, 35)
	assert.False(t, last.HasNextPage)

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPrevPage)
}
