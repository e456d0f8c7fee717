package gitutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRemote(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"git@github.com:acme/shop.git", "acme/shop", true},
		{"https://github.com/acme/shop.git\n", "acme/shop", true},
		{"https://gitlab.example.com/group/sub/tool", "sub/tool", true},
		{"shop", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRemote(tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestOutsideRepository(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plain")
	assert.Equal(t, "plain", InferRepoName(context.Background(), dir))
	assert.Equal(t, "unknown", ResolveCommit(context.Background(), dir, "v1"))
}
