// Package errors defines the two error classes stack-pr reports to the user
// and the exit codes they map to. Use errors.Is() and errors.As() to check for
// specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes returned by the stack-pr binary
const (
	ExitOK          = 0
	ExitUserError   = 1
	ExitToolFailure = 2
)

// Sentinel errors for common conditions
var (
	// ErrNotOnBranch indicates that HEAD is detached and no rebase is running
	ErrNotOnBranch = errors.New("not on a branch and not rebasing")

	// ErrNotRebasing indicates a rebase step was invoked outside of a rebase
	ErrNotRebasing = errors.New("no rebase in progress")

	// ErrDirtyWorktree indicates uncommitted changes in the working tree
	ErrDirtyWorktree = errors.New("working tree has uncommitted changes")
)

// UserError is an error caused by the state of the user's repository rather
// than by a failing tool. It is printed as a plain message.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a UserError with a formatted message
func NewUserError(format string, args ...interface{}) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// WrapUserError marks err as user-facing, prefixing it with message
func WrapUserError(err error, message string) *UserError {
	return &UserError{Message: message, Err: err}
}

// CommandError represents an external command (git, gh) that exited
// unexpectedly.
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s", e.CommandLine())
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", stderr)
	}
	if stdout := strings.TrimSpace(e.Stdout); stdout != "" && e.Stderr == "" {
		msg += fmt.Sprintf("\nstdout: %s", stdout)
	}
	if e.Err != nil && e.ExitCode == 0 {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

// CommandLine returns the command and its arguments joined by spaces
func (e *CommandError) CommandLine() string {
	return strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, args []string, exitCode int, stdout, stderr string, err error) *CommandError {
	return &CommandError{
		Command:  command,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
		Err:      err,
	}
}

// ExitCode maps an error returned by a command to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if IsUserError(err) {
		return ExitUserError
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return ExitToolFailure
	}
	return ExitUserError
}

// IsUserError reports whether err should be printed without command details
func IsUserError(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr)
}
