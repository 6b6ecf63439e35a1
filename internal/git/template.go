package git

import (
	"os"
	"path/filepath"
	"strings"
)

// prTemplateLocations lists standard GitHub PR template locations in order of precedence
var prTemplateLocations = []string{
	".github/PULL_REQUEST_TEMPLATE.md",
	".github/pull_request_template.md",
	"docs/pull_request_template.md",
	"PULL_REQUEST_TEMPLATE.md",
	"pull_request_template.md",
}

// FindPRTemplate searches for a GitHub pull request template, starting in
// startDir and walking up to the repository root. The nearest directory with a
// template wins. Returns an empty string if no template exists.
func (c *Client) FindPRTemplate(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	if !isWithin(c.gitRoot, dir) {
		dir = c.gitRoot
	}

	for {
		content, found, err := readTemplateIn(dir)
		if err != nil || found {
			return content, err
		}
		if dir == c.gitRoot {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func readTemplateIn(dir string) (string, bool, error) {
	for _, location := range prTemplateLocations {
		content, err := os.ReadFile(filepath.Join(dir, location))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", false, err
		}
		return string(content), true, nil
	}
	return "", false, nil
}

func isWithin(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel == "." || !strings.HasPrefix(rel, "..")
}
