package stack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bjulian5/stackpr/internal/cache"
	"github.com/bjulian5/stackpr/internal/gh"
	"github.com/bjulian5/stackpr/internal/model"
)

// ViewPR returns the pull request at url, served from the run cache when
// possible
func (e *Engine) ViewPR(ctx context.Context, url string) (*model.PullRequest, error) {
	raw, err := e.cache.Memo(cache.PRKey(url), func() (string, error) {
		pr, err := e.host.ViewPR(ctx, url)
		if err != nil {
			return "", err
		}
		return encodePR(pr)
	})
	if err != nil {
		return nil, err
	}

	var pr model.PullRequest
	if err := json.Unmarshal([]byte(raw), &pr); err != nil {
		return nil, fmt.Errorf("failed to decode cached PR %s: %w", url, err)
	}
	return &pr, nil
}

// encodePR serializes pr for the cache, leaving HTML in bodies unescaped
func encodePR(pr *model.PullRequest) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(pr); err != nil {
		return "", fmt.Errorf("failed to encode PR %s: %w", pr.URL, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// CreateOrGetPR creates a pull request for head. If one already exists its URL
// is returned as up-to-date. A nil body selects the repository PR template.
func (e *Engine) CreateOrGetPR(ctx context.Context, base, head, title string, body *string) (PROutcome, error) {
	text := ""
	if body != nil {
		text = *body
	} else {
		template, err := e.git.FindPRTemplate(e.workDir)
		if err != nil {
			return PROutcome{}, fmt.Errorf("failed to read PR template: %w", err)
		}
		text = template
	}

	url, err := e.host.CreatePR(ctx, base, head, title, text)
	if err != nil {
		var exists *gh.AlreadyExistsError
		if errors.As(err, &exists) {
			e.logger.Debug("pull request already exists", "head", head, "url", exists.URL)
			return PROutcome{URL: exists.URL, Base: base, Result: ResultUpToDate}, nil
		}
		return PROutcome{}, err
	}

	e.logger.Debug("created pull request", "head", head, "base", base, "url", url)
	return PROutcome{URL: url, Base: base, Result: ResultCreated}, nil
}

// UpdatePR points the pull request at base and refreshes its stack manifest,
// reopening it if it was closed. No request is made when nothing changed.
func (e *Engine) UpdatePR(ctx context.Context, url, base, manifest string) (PROutcome, error) {
	pr, err := e.ViewPR(ctx, url)
	if err != nil {
		return PROutcome{}, err
	}

	body := ApplyManifest(pr.Body, manifest)
	outcome := PROutcome{URL: url, Base: base, ReviewDecision: pr.ReviewDecision}
	if pr.BaseBranch == base && pr.Body == body && pr.IsOpen() {
		outcome.Result = ResultUpToDate
		return outcome, nil
	}

	e.cache.Clean(cache.PRKey(url))
	outcome.Result = ResultUpdated
	if !pr.IsOpen() {
		e.logger.Debug("reopening pull request", "url", url, "state", pr.State)
		if err := e.host.ReopenPR(ctx, url, e.config.ReopenComment); err != nil {
			return PROutcome{}, err
		}
		outcome.Result = ResultReopened
	}

	e.logger.Debug("editing pull request", "url", url, "base", base, "old_base", pr.BaseBranch)
	if err := e.host.EditPR(ctx, url, base, body); err != nil {
		return PROutcome{}, err
	}
	return outcome, nil
}

// IsAccidentallyMerged checks if a pull request was merged into another stack
// branch instead of the trunk
func IsAccidentallyMerged(pr *model.PullRequest) bool {
	return pr.IsMerged() && IsStackBranch(pr.BaseBranch)
}
