package gh

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// prViewFields are the fields requested from `gh pr view --json`
const prViewFields = "number,title,body,baseRefName,headRefName,url,reviewDecision,state"

var existingPRRegex = regexp.MustCompile(`(?s)already exists.*?(https?://\S+/pull/\d+)`)

// AlreadyExistsError is returned by CreatePR when the head branch already
// has an open pull request
type AlreadyExistsError struct {
	URL string
	Err error
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("pull request already exists: %s", e.URL)
}

func (e *AlreadyExistsError) Unwrap() error {
	return e.Err
}

// ExistingPRURL extracts the URL of the existing pull request from an
// "already exists" error message, or returns an empty string
func ExistingPRURL(text string) string {
	m := existingPRRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// PRNumberFromURL returns the trailing numeric path segment of a pull request URL
func PRNumberFromURL(url string) (int, bool) {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	idx := strings.LastIndex(url, "/")
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(url[idx+1:])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
