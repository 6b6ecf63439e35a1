package gh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/bjulian5/stackpr/internal/model"
)

// APIClient provides GitHub operations via the REST API
type APIClient struct {
	client *github.Client
	owner  string
	repo   string
	logger *slog.Logger
}

// RepoInfo contains parsed information from a git remote URL
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// NewAPIClient creates a REST client for the repository behind remoteURL.
// The token comes from GITHUB_TOKEN, GH_TOKEN or `gh auth token`.
func NewAPIClient(ctx context.Context, remoteURL string, logger *slog.Logger) (*APIClient, error) {
	info, err := ParseRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	token, err := githubToken(ctx, info.Hostname)
	if err != nil {
		return nil, err
	}

	client, err := newGitHubClient(ctx, info.Hostname, token)
	if err != nil {
		return nil, err
	}
	return newAPIClient(client, info.Owner, info.Repo, logger), nil
}

func newAPIClient(client *github.Client, owner, repo string, logger *slog.Logger) *APIClient {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &APIClient{client: client, owner: owner, repo: repo, logger: logger}
}

// newGitHubClient creates a GitHub client configured for the given hostname.
// Hosts other than github.com are treated as GitHub Enterprise.
func newGitHubClient(ctx context.Context, hostname, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if hostname != "github.com" {
		baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", hostname, err)
		}
		uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", hostname, err)
		}
		client.BaseURL = baseURL
		client.UploadURL = uploadURL
	}
	return client, nil
}

func githubToken(ctx context.Context, hostname string) (string, error) {
	for _, name := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(name); token != "" {
			return token, nil
		}
	}

	out, err := exec.CommandContext(ctx, "gh", "auth", "token", "--hostname", hostname).Output()
	if err != nil {
		return "", fmt.Errorf("no GitHub token: set GITHUB_TOKEN or run 'gh auth login': %w", err)
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}
	return token, nil
}

// ParseRemoteURL extracts hostname, owner and repo from an SSH or HTTPS remote URL
func ParseRemoteURL(remoteURL string) (*RepoInfo, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(remoteURL), ".git")

	var hostname, path string
	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid remote URL %q: %w", remoteURL, err)
		}
		hostname = u.Hostname()
		path = u.Path
	case strings.Contains(raw, "@"):
		// git@hostname:owner/repo
		_, hostAndPath, _ := strings.Cut(raw, "@")
		var ok bool
		hostname, path, ok = strings.Cut(hostAndPath, ":")
		if !ok {
			return nil, fmt.Errorf("invalid SSH remote URL %q", remoteURL)
		}
	default:
		return nil, fmt.Errorf("unsupported remote URL %q", remoteURL)
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if hostname == "" || len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return nil, fmt.Errorf("failed to parse owner and repo from remote URL %q", remoteURL)
	}
	return &RepoInfo{
		Hostname: hostname,
		Owner:    parts[len(parts)-2],
		Repo:     parts[len(parts)-1],
	}, nil
}

// CurrentLogin returns the login of the authenticated user
func (c *APIClient) CurrentLogin(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub login: %w", err)
	}
	return user.GetLogin(), nil
}

// DefaultBranch returns the default branch of the repository
func (c *APIClient) DefaultBranch(ctx context.Context) (string, error) {
	repo, _, err := c.client.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		return "", fmt.Errorf("failed to get default branch: %w", err)
	}
	return repo.GetDefaultBranch(), nil
}

// ViewPR fetches a pull request by URL
func (c *APIClient) ViewPR(ctx context.Context, prURL string) (*model.PullRequest, error) {
	number, ok := PRNumberFromURL(prURL)
	if !ok {
		return nil, fmt.Errorf("not a pull request URL: %s", prURL)
	}

	c.logger.Debug("github api", "op", "get pull request", "number", number)
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PR %s: %w", prURL, err)
	}

	reviews, _, err := c.client.PullRequests.ListReviews(ctx, c.owner, c.repo, number, &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews for PR %s: %w", prURL, err)
	}

	return toPullRequest(pr, reviews), nil
}

func toPullRequest(pr *github.PullRequest, reviews []*github.PullRequestReview) *model.PullRequest {
	state := strings.ToUpper(pr.GetState())
	if pr.GetMerged() || pr.MergedAt != nil {
		state = model.StateMerged
	}
	return &model.PullRequest{
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		Body:           pr.GetBody(),
		BaseBranch:     pr.GetBase().GetRef(),
		HeadBranch:     pr.GetHead().GetRef(),
		URL:            pr.GetHTMLURL(),
		ReviewDecision: reviewDecision(pr, reviews),
		State:          state,
	}
}

// reviewDecision derives the decision GitHub reports through GraphQL from the
// latest review of each reviewer
func reviewDecision(pr *github.PullRequest, reviews []*github.PullRequestReview) string {
	latest := make(map[string]string)
	for _, review := range reviews {
		switch state := review.GetState(); state {
		case model.ReviewApproved, model.ReviewChangesRequested, "DISMISSED":
			latest[review.GetUser().GetLogin()] = state
		}
	}

	approved := false
	for _, state := range latest {
		if state == model.ReviewChangesRequested {
			return model.ReviewChangesRequested
		}
		if state == model.ReviewApproved {
			approved = true
		}
	}
	if approved {
		return model.ReviewApproved
	}
	if len(pr.RequestedReviewers) > 0 || len(pr.RequestedTeams) > 0 {
		return model.ReviewRequired
	}
	return ""
}

// CreatePR creates a pull request and returns its URL. If the head branch
// already has a pull request the error is an *AlreadyExistsError.
func (c *APIClient) CreatePR(ctx context.Context, base, head, title, body string) (string, error) {
	c.logger.Debug("github api", "op", "create pull request", "base", base, "head", head)
	pr, _, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, &github.NewPullRequest{
		Title: github.String(title),
		Head:  github.String(head),
		Base:  github.String(base),
		Body:  github.String(body),
	})
	if err == nil {
		return pr.GetHTMLURL(), nil
	}

	if isAlreadyExists(err) {
		existing, _, listErr := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
			Head:        fmt.Sprintf("%s:%s", c.owner, head),
			State:       "open",
			ListOptions: github.ListOptions{PerPage: 1},
		})
		if listErr == nil && len(existing) > 0 {
			return "", &AlreadyExistsError{URL: existing[0].GetHTMLURL(), Err: err}
		}
	}
	return "", fmt.Errorf("failed to create PR: %w", err)
}

func isAlreadyExists(err error) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil || errResp.Response.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	if strings.Contains(errResp.Message, "already exists") {
		return true
	}
	for _, e := range errResp.Errors {
		if strings.Contains(e.Message, "already exists") {
			return true
		}
	}
	return false
}

// EditPR sets the base branch and body of a pull request
func (c *APIClient) EditPR(ctx context.Context, prURL, base, body string) error {
	number, ok := PRNumberFromURL(prURL)
	if !ok {
		return fmt.Errorf("not a pull request URL: %s", prURL)
	}

	c.logger.Debug("github api", "op", "edit pull request", "number", number, "base", base)
	_, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, number, &github.PullRequest{
		Base: &github.PullRequestBranch{Ref: github.String(base)},
		Body: github.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to update PR: %w", err)
	}
	return nil
}

// ReopenPR reopens a closed pull request, leaving comment when non-empty
func (c *APIClient) ReopenPR(ctx context.Context, prURL, comment string) error {
	number, ok := PRNumberFromURL(prURL)
	if !ok {
		return fmt.Errorf("not a pull request URL: %s", prURL)
	}

	c.logger.Debug("github api", "op", "reopen pull request", "number", number)
	_, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, number, &github.PullRequest{
		State: github.String("open"),
	})
	if err != nil {
		return fmt.Errorf("failed to reopen PR: %w", err)
	}

	if comment != "" {
		if _, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{
			Body: github.String(comment),
		}); err != nil {
			return fmt.Errorf("failed to comment on PR: %w", err)
		}
	}
	return nil
}

// OpenInBrowser opens a pull request in the default browser
func (c *APIClient) OpenInBrowser(_ context.Context, prURL string) error {
	return openBrowser(prURL)
}
