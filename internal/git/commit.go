package git

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/bjulian5/stackpr/internal/model"
)

// PRTrailerKey is the header of the commit message line that records the
// pull request for a commit
const PRTrailerKey = "Pull Request"

const recordSeparator = "\x1e"

var trailerLineRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*:\s`)

var prTrailerRegex = regexp.MustCompile(`(?m)^[ \t]*Pull Request: (\S+)[ \t]*$`)

// ParseError reports a log entry that could not be split into a commit
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed commit (%s):\n%s", e.Reason, strings.TrimSpace(e.Raw))
}

// ParseLog parses the output of `git log --format=%x1e%H%n%B` into commits in
// log order. The sequence is evaluated lazily and can be iterated once per
// call; a malformed entry is yielded as a *ParseError.
func ParseLog(raw string) iter.Seq2[model.Commit, error] {
	return func(yield func(model.Commit, error) bool) {
		for chunk := range strings.SplitSeq(raw, recordSeparator) {
			if strings.TrimSpace(chunk) == "" {
				continue
			}
			commit, err := parseCommit(chunk)
			if !yield(commit, err) {
				return
			}
		}
	}
}

// CollectLog drains ParseLog, stopping at the first malformed entry
func CollectLog(raw string) ([]model.Commit, error) {
	var commits []model.Commit
	for commit, err := range ParseLog(raw) {
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}
	return commits, nil
}

func parseCommit(chunk string) (model.Commit, error) {
	hash, body, ok := strings.Cut(strings.TrimLeft(chunk, "\n"), "\n")
	hash = strings.TrimSpace(hash)
	if !ok || hash == "" {
		return model.Commit{}, &ParseError{Reason: "missing hash or message", Raw: chunk}
	}

	title, description, _ := strings.Cut(strings.TrimSpace(body), "\n")
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Commit{}, &ParseError{Reason: "empty commit title", Raw: chunk}
	}
	description = strings.TrimSpace(description)

	return model.Commit{
		Hash:        hash,
		PRURL:       ExtractPRURL(description),
		Title:       title,
		Description: description,
	}, nil
}

// ExtractPRURL returns the URL from the "Pull Request:" trailer line, or an
// empty string if the message has none
func ExtractPRURL(message string) string {
	m := prTrailerRegex.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return m[1]
}

// Message reassembles the full commit message from title and description
func Message(title, description string) string {
	if description == "" {
		return title + "\n"
	}
	return title + "\n\n" + description + "\n"
}

// SetPRTrailer returns message with its "Pull Request:" trailer pointing at
// url. An existing trailer line is replaced in place; otherwise the trailer is
// appended after a blank line.
func SetPRTrailer(message string, url string) string {
	line := fmt.Sprintf("%s: %s", PRTrailerKey, url)
	if prTrailerRegex.MatchString(message) {
		replaced := false
		return prTrailerRegex.ReplaceAllStringFunc(message, func(string) string {
			if replaced {
				return ""
			}
			replaced = true
			return line
		})
	}

	message = strings.TrimRight(message, "\n")
	if !strings.Contains(message, "\n") {
		// Title only: trailer becomes the description
		return message + "\n\n" + line + "\n"
	}
	if endsWithTrailerBlock(message) {
		return message + "\n" + line + "\n"
	}
	return message + "\n\n" + line + "\n"
}

// endsWithTrailerBlock checks if the last paragraph of message, other than
// the title, consists only of "Key: value" lines
func endsWithTrailerBlock(message string) bool {
	i := strings.LastIndex(message, "\n\n")
	if i < 0 {
		return false
	}
	paragraph := strings.TrimSpace(message[i+2:])
	if paragraph == "" {
		return false
	}
	for l := range strings.SplitSeq(paragraph, "\n") {
		if !isTrailerLine(l) {
			return false
		}
	}
	return true
}

// isTrailerLine checks if a line looks like a "Key: Value" git trailer
func isTrailerLine(line string) bool {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, PRTrailerKey+":") {
		return true
	}
	return trailerLineRegex.MatchString(line)
}
