package gitutil

import (
	"context"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

var remoteRe = regexp.MustCompile(`[:/](?P<owner>[^/]+)/(?P<repo>[^/]+?)(?:\.git)?$`)

// InferRepoName returns "owner/repo" from the origin remote, or the
// directory name when there is none.
func InferRepoName(ctx context.Context, repoRoot string) string {
	out, err := git(ctx, repoRoot, "remote", "get-url", "origin")
	if err != nil {
		return baseName(repoRoot)
	}
	if name, ok := ParseRemote(out); ok {
		return name
	}
	return baseName(repoRoot)
}

// ParseRemote extracts "owner/repo" from an ssh or https remote URL.
func ParseRemote(url string) (string, bool) {
	m := remoteRe.FindStringSubmatch(strings.TrimSpace(url))
	if len(m) == 0 {
		return "", false
	}
	return m[1] + "/" + m[2], true
}

// ResolveCommit resolves commitRef, falling back to HEAD and then "unknown".
func ResolveCommit(ctx context.Context, repoRoot, commitRef string) string {
	if commitRef != "" {
		if sha, err := git(ctx, repoRoot, "rev-parse", commitRef); err == nil {
			return sha
		}
	}
	sha, err := git(ctx, repoRoot, "rev-parse", "HEAD")
	if err != nil {
		return "unknown"
	}
	return sha
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func baseName(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Base(root)
}
