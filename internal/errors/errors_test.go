package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	cmdErr := NewCommandError("git", []string{"push", "origin"}, 128, "", "fatal: no remote", errors.New("exit status 128"))

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: ExitOK},
		{name: "plain error", err: errors.New("boom"), expected: ExitUserError},
		{name: "user error", err: NewUserError("bad commit"), expected: ExitUserError},
		{name: "sentinel wrapped as user error", err: WrapUserError(ErrNotOnBranch, "cannot sync"), expected: ExitUserError},
		{name: "command error", err: cmdErr, expected: ExitToolFailure},
		{name: "wrapped command error", err: fmt.Errorf("failed to push: %w", cmdErr), expected: ExitToolFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCode(tt.err))
		})
	}
}

func TestCommandError_Error(t *testing.T) {
	err := NewCommandError("gh", []string{"pr", "create", "--base", "main"}, 1, "", "GraphQL: something broke\n", errors.New("exit status 1"))

	assert.Equal(t, "command failed: gh pr create --base main (exit code 1)\nstderr: GraphQL: something broke", err.Error())
	assert.Equal(t, "gh pr create --base main", err.CommandLine())
}

func TestUserError_Unwrap(t *testing.T) {
	err := WrapUserError(ErrDirtyWorktree, "commit or stash first")

	assert.True(t, errors.Is(err, ErrDirtyWorktree))
	assert.Equal(t, "commit or stash first: working tree has uncommitted changes", err.Error())
}
