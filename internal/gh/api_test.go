package gh

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/stackpr/internal/model"
)

func newTestAPIClient(t *testing.T, mux *http.ServeMux) *APIClient {
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL

	return newAPIClient(client, "owner", "repo", nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestAPIClient_ViewPR(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/repo/pulls/3", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"number":   3,
			"title":    "Add parser",
			"body":     "Body",
			"state":    "closed",
			"merged":   true,
			"html_url": "https://github.com/owner/repo/pull/3",
			"base":     map[string]any{"ref": "stack/octocat/first"},
			"head":     map[string]any{"ref": "stack/octocat/add-parser"},
		})
	})
	mux.HandleFunc("GET /repos/owner/repo/pulls/3/reviews", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"state": "CHANGES_REQUESTED", "user": map[string]any{"login": "alice"}},
			{"state": "APPROVED", "user": map[string]any{"login": "alice"}},
			{"state": "COMMENTED", "user": map[string]any{"login": "bob"}},
		})
	})

	client := newTestAPIClient(t, mux)
	pr, err := client.ViewPR(context.Background(), "https://github.com/owner/repo/pull/3")
	require.NoError(t, err)

	expected := &model.PullRequest{
		Number:         3,
		Title:          "Add parser",
		Body:           "Body",
		BaseBranch:     "stack/octocat/first",
		HeadBranch:     "stack/octocat/add-parser",
		URL:            "https://github.com/owner/repo/pull/3",
		ReviewDecision: model.ReviewApproved,
		State:          model.StateMerged,
	}
	assert.Equal(t, expected, pr)
}

func TestAPIClient_CreatePR_AlreadyExists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/owner/repo/pulls", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Validation Failed",
			"errors": []map[string]any{
				{"resource": "PullRequest", "code": "custom", "message": "A pull request already exists for owner:stack/octocat/add-parser."},
			},
		})
	})
	mux.HandleFunc("GET /repos/owner/repo/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "owner:stack/octocat/add-parser", r.URL.Query().Get("head"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"number": 9, "html_url": "https://github.com/owner/repo/pull/9"},
		})
	})

	client := newTestAPIClient(t, mux)
	_, err := client.CreatePR(context.Background(), "main", "stack/octocat/add-parser", "Add parser", "")

	var existsErr *AlreadyExistsError
	require.ErrorAs(t, err, &existsErr)
	assert.Equal(t, "https://github.com/owner/repo/pull/9", existsErr.URL)
}

func TestAPIClient_CreatePR(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/owner/repo/pulls", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "main", req["base"])
		assert.Equal(t, "stack/octocat/add-parser", req["head"])
		writeJSON(w, http.StatusCreated, map[string]any{
			"number":   10,
			"html_url": "https://github.com/owner/repo/pull/10",
		})
	})

	client := newTestAPIClient(t, mux)
	prURL, err := client.CreatePR(context.Background(), "main", "stack/octocat/add-parser", "Add parser", "body")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/owner/repo/pull/10", prURL)
}

func TestAPIClient_ReopenPR(t *testing.T) {
	var reopened, commented bool
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /repos/owner/repo/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "open", req["state"])
		reopened = true
		writeJSON(w, http.StatusOK, map[string]any{"number": 5})
	})
	mux.HandleFunc("POST /repos/owner/repo/issues/5/comments", func(w http.ResponseWriter, r *http.Request) {
		commented = true
		writeJSON(w, http.StatusCreated, map[string]any{"id": 1})
	})

	client := newTestAPIClient(t, mux)
	require.NoError(t, client.ReopenPR(context.Background(), "https://github.com/owner/repo/pull/5", "Reopened by stack-pr"))
	assert.True(t, reopened)
	assert.True(t, commented)
}

func TestReviewDecision(t *testing.T) {
	review := func(login, state string) *github.PullRequestReview {
		return &github.PullRequestReview{State: github.String(state), User: &github.User{Login: github.String(login)}}
	}

	tests := []struct {
		name     string
		pr       *github.PullRequest
		reviews  []*github.PullRequestReview
		expected string
	}{
		{
			name:     "no reviews",
			pr:       &github.PullRequest{},
			expected: "",
		},
		{
			name:     "requested reviewer",
			pr:       &github.PullRequest{RequestedReviewers: []*github.User{{Login: github.String("bob")}}},
			expected: model.ReviewRequired,
		},
		{
			name:     "changes requested wins",
			pr:       &github.PullRequest{},
			reviews:  []*github.PullRequestReview{review("alice", "APPROVED"), review("bob", "CHANGES_REQUESTED")},
			expected: model.ReviewChangesRequested,
		},
		{
			name:     "dismissed review is superseded",
			pr:       &github.PullRequest{},
			reviews:  []*github.PullRequestReview{review("bob", "CHANGES_REQUESTED"), review("bob", "DISMISSED"), review("alice", "APPROVED")},
			expected: model.ReviewApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, reviewDecision(tt.pr, tt.reviews))
		})
	}
}
