// Package lang picks and loads the syntax backend for a repository.
package lang

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vd09-projects/relctx/internal/lang/golang"
	"github.com/vd09-projects/relctx/internal/lang/java"
	"github.com/vd09-projects/relctx/internal/source"
	"github.com/vd09-projects/relctx/internal/syntax"
)

const (
	Go   = "go"
	Java = "java"
)

var ErrUnknownLanguage = errors.New("unknown language")

var javaBuildFiles = []string{"pom.xml", "build.gradle", "build.gradle.kts"}

type Options struct {
	Exclude []*regexp.Regexp
	Tests   bool
	Logger  *slog.Logger
}

// Supported reports whether name is a language with a backend.
func Supported(name string) bool {
	return name == Go || name == Java
}

// Detect guesses the language of the repository at root from its build files.
func Detect(root string) (string, error) {
	if exists(filepath.Join(root, "go.mod")) {
		return Go, nil
	}
	for _, f := range javaBuildFiles {
		if exists(filepath.Join(root, f)) {
			return Java, nil
		}
	}
	if hasJavaSource(root) {
		return Java, nil
	}
	return "", fmt.Errorf("%w: no go.mod, Java build file or .java source under %s", ErrUnknownLanguage, root)
}

// Load parses the repository with the backend for language. An empty
// language is detected.
func Load(ctx context.Context, root, language string, opts Options) (syntax.Program, error) {
	if language == "" {
		detected, err := Detect(root)
		if err != nil {
			return nil, err
		}
		language = detected
	}
	switch strings.ToLower(language) {
	case Go:
		p, err := golang.Load(ctx, root, golang.Options{Exclude: opts.Exclude, Tests: opts.Tests, Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		return p, nil
	case Java:
		p, err := java.Load(ctx, root, java.Options{Exclude: opts.Exclude, Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var (
	errFound   = errors.New("found")
	skipDirsRE = regexp.MustCompile(source.DefaultExclude)
)

func hasJavaSource(root string) bool {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			rel := source.RelPosix(root, path)
			if rel != "." && skipDirsRE.MatchString(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".java") {
			return errFound
		}
		return nil
	})
	return errors.Is(err, errFound)
}
