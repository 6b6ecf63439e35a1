package open

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stackerrors "github.com/bjulian5/stackpr/internal/errors"
	"github.com/bjulian5/stackpr/internal/ui"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{arg: "1", want: 1},
		{arg: "12", want: 12},
		{arg: "0", wantErr: true},
		{arg: "-2", wantErr: true},
		{arg: "top", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParsePosition(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, stackerrors.IsUserError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectPosition(t *testing.T) {
	entries := []ui.StackEntry{
		{Position: 1, Title: "Add parser"},
		{Position: 2, Title: "Wire CLI"},
	}

	entry, err := SelectPosition(entries, 2)
	require.NoError(t, err)
	assert.Equal(t, "Wire CLI", entry.Title)

	_, err = SelectPosition(entries, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}
