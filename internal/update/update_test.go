package update

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewer(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"v1.0.0", "v1.0.1", true},
		{"1.2.0", "v1.10.0", true},
		{"v1.2.0", "v1.2.0", false},
		{"v2.0.0", "v1.9.9", false},
		{"v1.0.0-rc.1", "v1.0.0", true},
	}
	for _, tt := range tests {
		got, err := Newer(tt.current, tt.latest)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.current, tt.latest)
	}

	_, err := Newer("dev", "v1.0.0")
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestCanonical(t *testing.T) {
	v, err := Canonical(" 1.2 ")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", v)
}

func TestGoInstaller(t *testing.T) {
	var gotName string
	var gotArgs []string
	var out bytes.Buffer
	g := NewGoInstaller("example.com/tool/cmd/tool", &out, nil)
	g.command = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		gotName, gotArgs = name, args
		return exec.CommandContext(ctx, "echo", "installed")
	}

	err := g.Install(context.Background(), "1.4.0")
	if err != nil {
		t.Skipf("echo unavailable: %v", err)
	}
	assert.Equal(t, "go", gotName)
	assert.Equal(t, []string{"install", "example.com/tool/cmd/tool@v1.4.0"}, gotArgs)
	assert.Equal(t, "installed\n", out.String())
}

func TestGoInstallerRejectsBadInput(t *testing.T) {
	assert.Error(t, NewGoInstaller("", nil, nil).Install(context.Background(), "v1.0.0"))
	assert.ErrorIs(t, NewGoInstaller("m", nil, nil).Install(context.Background(), "banana"), ErrInvalidVersion)
}
