package stack

import (
	"fmt"
	"strings"

	"github.com/bjulian5/stackpr/internal/gh"
)

// ManifestHeader opens the stack section of every pull request body.
// Everything from this line to the end of the body belongs to stack-pr.
const ManifestHeader = "Stack:"

// CurrentMarker is appended to the manifest row of the PR being displayed
const CurrentMarker = " 👈"

// RenderManifest renders the stack section for the PR at current. urls lists
// every PR of the stack newest first. URLs without a trailing PR number are
// skipped.
func RenderManifest(urls []string, current string) string {
	var sb strings.Builder
	sb.WriteString(ManifestHeader)
	for _, url := range urls {
		number, ok := gh.PRNumberFromURL(url)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "\n- #%d", number)
		if url == current {
			sb.WriteString(CurrentMarker)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// ApplyManifest replaces the stack section of body with manifest, or appends
// it after a blank line when body has none. Applying the same manifest twice
// yields the same body.
func ApplyManifest(body, manifest string) string {
	if idx := manifestStart(body); idx >= 0 {
		return body[:idx] + manifest
	}

	trimmed := strings.TrimRight(body, "\r\n")
	if trimmed == "" {
		return manifest
	}
	return trimmed + "\n\n" + manifest
}

// manifestStart returns the byte offset of the manifest header line, or -1
func manifestStart(body string) int {
	offset := 0
	for line := range strings.SplitAfterSeq(body, "\n") {
		if strings.TrimRight(line, "\r\n") == ManifestHeader {
			return offset
		}
		offset += len(line)
	}
	return -1
}
