package model

// Commit represents a local commit in the stack that maps to one remote branch
// and one pull request.
type Commit struct {
	Hash        string
	PRURL       string // Extracted from the "Pull Request:" trailer, empty if no PR yet
	Title       string
	Description string

	// Branch is derived during processing and never persisted
	Branch string
}

// HasPR returns true if the commit message already references a pull request
func (c *Commit) HasPR() bool {
	return c.PRURL != ""
}

// ShortHash returns the abbreviated commit hash used in output
func (c *Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}
