package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		info    BuildInfo
		wantOut string
	}{
		{
			name:    "release",
			info:    BuildInfo{Version: "1.2.3", GitCommit: "abc1234", BuildDate: "2026-01-02"},
			wantOut: "cncc v1.2.3\ncommit abc1234, built 2026-01-02\n",
		},
		{
			name:    "dev build",
			info:    BuildInfo{Version: "dev", GitCommit: "unknown", BuildDate: "unknown"},
			wantOut: "cncc vdev\ncommit unknown, built unknown\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{})

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.wantOut, buf.String())
		})
	}
}

func TestVersionCommandRejectsArgs(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "test"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.Execute())
	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
}
