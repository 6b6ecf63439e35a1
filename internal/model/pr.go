package model

// PR states as reported by the hosting platform
const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"
	StateMerged = "MERGED"
)

// Review decisions as reported by the hosting platform
const (
	ReviewApproved         = "APPROVED"
	ReviewRequired         = "REVIEW_REQUIRED"
	ReviewChangesRequested = "CHANGES_REQUESTED"
)

// PullRequest is the remote state of a pull request.
// JSON field names match `gh pr view --json` so the output can be decoded directly.
type PullRequest struct {
	Number         int    `json:"number"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	BaseBranch     string `json:"baseRefName"`
	HeadBranch     string `json:"headRefName"` // Immutable once the PR exists
	URL            string `json:"url"`
	ReviewDecision string `json:"reviewDecision"`
	State          string `json:"state"`
}

// IsOpen returns true if the PR is open
func (p *PullRequest) IsOpen() bool {
	return p != nil && p.State == StateOpen
}

// IsMerged returns true if the PR has been merged
func (p *PullRequest) IsMerged() bool {
	return p != nil && p.State == StateMerged
}
