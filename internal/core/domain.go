package core

import "github.com/vd09-projects/relctx/internal/syntax"

type AspectKind string

const (
	AspectRelated   AspectKind = "related"
	AspectContext   AspectKind = "context"
	AspectOwner     AspectKind = "owner"
	AspectNeighbors AspectKind = "neighbors"
	AspectCallGraph AspectKind = "callgraph"
	AspectSelection AspectKind = "selection"
)

type RepoNode struct {
	Root  string
	Lang  string
	Files []*FileNode
}

type FileNode struct {
	RelPath string
	Lines   []string
	Decls   []*DeclNode
}

// DeclNode is one extracted class or method with its trimmed code.
type DeclNode struct {
	Decl          *syntax.Decl
	Symbol        string
	Kind          string
	Signature     string
	StartLine     int
	EndLine       int
	TrimmedLength int
	Code          string
	IsTestFile    bool
	Aspects       map[AspectKind]any
}
