// Package update compares release versions and installs newer ones.
package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/mod/semver"
)

var ErrInvalidVersion = errors.New("invalid semantic version")

// Canonical adds the "v" prefix semver expects and validates the result.
func Canonical(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return semver.Canonical(v), nil
}

// Newer reports whether latest is a higher version than current.
func Newer(current, latest string) (bool, error) {
	cur, err := Canonical(current)
	if err != nil {
		return false, err
	}
	lat, err := Canonical(latest)
	if err != nil {
		return false, err
	}
	return semver.Compare(lat, cur) > 0, nil
}

// Installer installs a given version.
type Installer interface {
	Install(ctx context.Context, version string) error
}

// GoInstaller runs "go install module@version".
type GoInstaller struct {
	Module string
	GoBin  string // defaults to "go"
	Output io.Writer
	Log    *slog.Logger

	// command is replaced in tests
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewGoInstaller(module string, out io.Writer, log *slog.Logger) *GoInstaller {
	if log == nil {
		log = slog.Default()
	}
	return &GoInstaller{Module: module, GoBin: "go", Output: out, Log: log, command: exec.CommandContext}
}

func (g *GoInstaller) Install(ctx context.Context, version string) error {
	if g.Module == "" {
		return errors.New("update module is not configured")
	}
	if version != "latest" {
		v, err := Canonical(version)
		if err != nil {
			return err
		}
		version = v
	}
	target := g.Module + "@" + version
	bin := g.GoBin
	if bin == "" {
		bin = "go"
	}
	command := g.command
	if command == nil {
		command = exec.CommandContext
	}

	cmd := command(ctx, bin, "install", target)
	cmd.Stdout = g.Output
	cmd.Stderr = g.Output
	g.Log.Info("installing update", "target", target)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go install %s: %w", target, err)
	}
	return nil
}
