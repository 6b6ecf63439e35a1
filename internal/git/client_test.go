package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/stackpr/internal/git"
	"github.com/bjulian5/stackpr/internal/testutil"
)

func TestLog(t *testing.T) {
	ctx := context.Background()
	client := testutil.NewTestGitClient(t)
	base := testutil.RunGit(t, client.GitRoot(), "rev-parse", "HEAD")

	first := testutil.CreateCommit(t, client, "First", "")
	second := testutil.CreateCommit(t, client, "Second", "Pull Request: https://github.com/o/r/pull/2")

	raw, err := client.Log(ctx, base, "HEAD")
	require.NoError(t, err)
	commits, err := git.CollectLog(raw)
	require.NoError(t, err)

	require.Len(t, commits, 2)
	assert.Equal(t, second, commits[0].Hash)
	assert.Equal(t, "https://github.com/o/r/pull/2", commits[0].PRURL)
	assert.Equal(t, first, commits[1].Hash)
	assert.False(t, commits[1].HasPR())

	raw, err = client.LogLast(ctx, "HEAD", 1)
	require.NoError(t, err)
	commits, err = git.CollectLog(raw)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "Second", commits[0].Title)
}

func TestCurrentBranch(t *testing.T) {
	ctx := context.Background()
	client := testutil.NewTestGitClient(t)

	branch, err := client.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	testutil.RunGit(t, client.GitRoot(), "checkout", "--detach")
	branch, err = client.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Empty(t, branch)
}

func TestAmendMessage(t *testing.T) {
	ctx := context.Background()
	client := testutil.NewTestGitClient(t)
	testutil.CreateCommit(t, client, "Feature", "")

	message := git.SetPRTrailer(git.Message("Feature", ""), "https://github.com/o/r/pull/5")
	require.NoError(t, client.AmendMessage(ctx, message))

	raw, err := client.LogLast(ctx, "HEAD", 1)
	require.NoError(t, err)
	commits, err := git.CollectLog(raw)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "https://github.com/o/r/pull/5", commits[0].PRURL)
	assert.Equal(t, "Feature", commits[0].Title)
}

func TestPushForce_UpToDate(t *testing.T) {
	ctx := context.Background()
	client := testutil.NewTestGitClient(t)
	testutil.NewBareRemote(t, client)
	hash := testutil.CreateCommit(t, client, "Pushed", "")

	out, err := client.PushForce(ctx, "origin", hash, "stack/test/pushed")
	require.NoError(t, err)
	assert.NotContains(t, out, "Everything up-to-date")

	out, err = client.PushForce(ctx, "origin", hash, "stack/test/pushed")
	require.NoError(t, err)
	assert.Contains(t, out, "Everything up-to-date")

	remote, err := client.DefaultRemote(ctx)
	require.NoError(t, err)
	assert.Equal(t, "origin", remote)
}

func TestRebaseExec_AbortOnFailure(t *testing.T) {
	ctx := context.Background()
	client := testutil.NewTestGitClient(t)
	testutil.CreateCommit(t, client, "One", "")
	testutil.CreateCommit(t, client, "Two", "")
	before := testutil.RunGit(t, client.GitRoot(), "rev-parse", "HEAD")

	require.NoError(t, client.RebaseExec(ctx, "HEAD~2", "true", nil))
	assert.False(t, client.IsRebaseInProgress(ctx))

	err := client.RebaseExec(ctx, "HEAD~2", "false", nil)
	require.Error(t, err)
	assert.True(t, client.IsRebaseInProgress(ctx))

	require.NoError(t, client.RebaseAbort(ctx))
	assert.False(t, client.IsRebaseInProgress(ctx))
	assert.Equal(t, before, testutil.RunGit(t, client.GitRoot(), "rev-parse", "HEAD"))
}

func TestFindPRTemplate(t *testing.T) {
	client := testutil.NewTestGitClient(t)
	root := client.GitRoot()

	content, err := client.FindPRTemplate(root)
	require.NoError(t, err)
	assert.Empty(t, content)

	require.NoError(t, os.MkdirAll(filepath.Join(root, ".github"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".github", "pull_request_template.md"), []byte("root template"), 0644))

	nested := filepath.Join(root, "services", "api")
	require.NoError(t, os.MkdirAll(nested, 0755))

	content, err = client.FindPRTemplate(nested)
	require.NoError(t, err)
	assert.Equal(t, "root template", content)

	require.NoError(t, os.WriteFile(filepath.Join(root, "services", "PULL_REQUEST_TEMPLATE.md"), []byte("service template"), 0644))
	content, err = client.FindPRTemplate(nested)
	require.NoError(t, err)
	assert.Equal(t, "service template", content)
}
