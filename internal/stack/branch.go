package stack

import (
	"regexp"
	"strings"
)

// BranchPrefix is the first path component of every branch stack-pr manages
const BranchPrefix = "stack"

var (
	trailingTagRegex = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)
	nonWordRegex     = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_]+`)
)

// BranchName derives the remote branch for a commit from its title and the
// user's login. The result depends only on its inputs, so re-runs reuse the
// same branch without storing it anywhere.
func BranchName(title, login string) string {
	return BranchPrefix + "/" + login + "/" + slug(title)
}

// IsStackBranch checks if a branch is managed by stack-pr
func IsStackBranch(branch string) bool {
	return strings.HasPrefix(branch, BranchPrefix+"/")
}

func slug(title string) string {
	s := trailingTagRegex.ReplaceAllString(title, "")
	s = strings.ToLower(s)
	s = nonWordRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
