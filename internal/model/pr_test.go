package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPullRequest_IsMerged(t *testing.T) {
	tests := []struct {
		name     string
		pr       *PullRequest
		expected bool
	}{
		{
			name:     "nil PR returns false",
			pr:       nil,
			expected: false,
		},
		{
			name:     "merged state returns true",
			pr:       &PullRequest{Number: 123, State: StateMerged},
			expected: true,
		},
		{
			name:     "open state returns false",
			pr:       &PullRequest{Number: 123, State: StateOpen},
			expected: false,
		},
		{
			name:     "closed state returns false",
			pr:       &PullRequest{Number: 123, State: StateClosed},
			expected: false,
		},
		{
			name:     "case-sensitive: merged returns false",
			pr:       &PullRequest{Number: 123, State: "merged"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pr.IsMerged())
		})
	}
}

func TestPullRequest_IsOpen(t *testing.T) {
	assert.False(t, (*PullRequest)(nil).IsOpen())
	assert.True(t, (&PullRequest{State: StateOpen}).IsOpen())
	assert.False(t, (&PullRequest{State: StateClosed}).IsOpen())
}

func TestCommit_HasPR(t *testing.T) {
	c := &Commit{Hash: "0123456789abcdef", Title: "Add feature"}
	assert.False(t, c.HasPR())
	assert.Equal(t, "0123456", c.ShortHash())

	c.PRURL = "https://github.com/owner/repo/pull/7"
	assert.True(t, c.HasPR())
}
