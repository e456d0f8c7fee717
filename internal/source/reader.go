// Package source lists the source files of a repository and holds the
// path helpers shared by the language backends.
package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultExclude skips vendored, generated and build output trees.
const DefaultExclude = `(^|/)(vendor|third_party|\.git|build|dist|target|node_modules)/`

type FileUnit struct {
	Filename string // absolute path
	RelPath  string // posix rel path from Root
	Src      string // full file text, normalized newlines
}

type Reader interface {
	List(ctx context.Context) ([]FileUnit, error)
}

// WalkReader lists every file under Root with one of Exts.
type WalkReader struct {
	Root       string
	Exts       []string
	ExcludeREs []*regexp.Regexp
}

func NewWalkReader(root string, exts []string, exclude []*regexp.Regexp) *WalkReader {
	return &WalkReader{Root: root, Exts: exts, ExcludeREs: exclude}
}

func (r *WalkReader) List(ctx context.Context) ([]FileUnit, error) {
	root, err := filepath.Abs(r.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	var out []FileUnit
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel := RelPosix(root, path)
		if d.IsDir() {
			if path != root && Excluded(rel+"/", r.ExcludeREs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !r.matchExt(path) || Excluded(rel, r.ExcludeREs) {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		out = append(out, FileUnit{
			Filename: path,
			RelPath:  rel,
			Src:      NormalizeNewlines(string(b)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *WalkReader) matchExt(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range r.Exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// --- helpers (shared) ---

// CompileExcludes compiles patterns, reporting the first invalid one.
func CompileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	var res []*regexp.Regexp
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		res = append(res, re)
	}
	return res, nil
}

func Excluded(rel string, res []*regexp.Regexp) bool {
	for _, r := range res {
		if r.MatchString(rel) {
			return true
		}
	}
	return false
}

func RelPosix(root, filename string) string {
	rel, err := filepath.Rel(root, filename)
	if err != nil {
		return ToPosix(filename)
	}
	return ToPosix(rel)
}

func ToPosix(p string) string { return strings.ReplaceAll(p, string(filepath.Separator), "/") }

// NormalizeNewlines converts CRLF and CR line endings to LF. Byte offsets
// of LF-only files are unchanged.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
