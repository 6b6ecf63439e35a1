package stack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUpToDate(t *testing.T) {
	assert.True(t, isUpToDate("Everything up-to-date\n"))
	assert.False(t, isUpToDate("To github.com:o/r.git\n + 1111111...2222222 2222222 -> stack/octocat/a (forced update)\n"))
	assert.False(t, isUpToDate(""))
}

func TestPush(t *testing.T) {
	g := newFakeGit("Add parser")
	engine := newTestEngine(t, g, newFakeHost())
	hash := g.stack[0].hash

	result, err := engine.Push(context.Background(), hash, "stack/octocat/add-parser")
	require.NoError(t, err)
	assert.Equal(t, ResultPushed, result)

	result, err = engine.Push(context.Background(), hash, "stack/octocat/add-parser")
	require.NoError(t, err)
	assert.Equal(t, ResultUpToDate, result)
	assert.Len(t, g.pushes, 2)
}
