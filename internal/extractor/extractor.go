package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/vd09-projects/relctx/internal/core"
	"github.com/vd09-projects/relctx/internal/syntax"
	"github.com/vd09-projects/relctx/internal/utils"
)

var genCodeRe = regexp.MustCompile(`(?im)^\s*(//|/\*|\*)\s*(Code generated|Generated by|This file was generated)`)
var testFileRe = regexp.MustCompile(`(_test\.go|Tests?\.java)$|(^|/)src/test/`)

type Extractor interface {
	Extract(ctx context.Context, prog syntax.Program) ([]*core.FileNode, error)
}

// DeclExtractor turns the classes and methods of a program into records.
// Fields are only ever emitted as related context.
type DeclExtractor struct {
	MaxLines int
	MinLines int
}

func NewDeclExtractor(minLines, maxLines int) *DeclExtractor {
	return &DeclExtractor{
		MaxLines: maxLines,
		MinLines: minLines,
	}
}

func (e *DeclExtractor) Extract(ctx context.Context, prog syntax.Program) ([]*core.FileNode, error) {
	files := prog.Files()
	out := make([]*core.FileNode, 0, len(files))
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, ok := prog.Source(rel)
		if !ok || isGenerated(src) {
			continue
		}
		nodes := e.extractDecls(rel, prog.Decls(rel))
		if len(nodes) == 0 {
			continue
		}
		out = append(out, &core.FileNode{
			RelPath: rel,
			Lines:   strings.Split(src, "\n"),
			Decls:   nodes,
		})
	}
	return out, nil
}

func (e *DeclExtractor) extractDecls(rel string, decls []*syntax.Decl) (out []*core.DeclNode) {
	isTest := testFileRe.MatchString(rel)
	for _, d := range decls {
		if d.Kind != syntax.KindClass && d.Kind != syntax.KindMethod {
			continue
		}
		trimmed, lines := trimDeclCode(d.Text, e.MaxLines)
		if lines < e.MinLines {
			continue
		}
		symbol := d.Qualified
		if symbol == "" {
			symbol = d.Name
		}
		out = append(out, &core.DeclNode{
			Decl:          d,
			Symbol:        symbol,
			Kind:          d.Kind.String(),
			Signature:     d.Signature,
			StartLine:     d.StartLine,
			EndLine:       d.EndLine,
			TrimmedLength: lines,
			Code:          trimmed,
			IsTestFile:    isTest,
			Aspects:       make(map[core.AspectKind]any),
		})
	}
	return out
}

// isGenerated looks for a generator banner in the first five lines.
func isGenerated(src string) bool {
	head := strings.SplitN(src, "\n", 6)
	return genCodeRe.MatchString(strings.Join(head[:utils.Min(5, len(head))], "\n"))
}
