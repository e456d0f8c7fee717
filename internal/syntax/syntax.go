// Package syntax is the language-neutral view of a parsed codebase that the
// related-context collector walks. Backends (Go, Java) implement Program.
package syntax

type Kind int

const (
	KindUnknown Kind = iota
	KindClass
	KindMethod
	KindField
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	default:
		return "unknown"
	}
}

// Decl is a single declaration with its exact source text.
type Decl struct {
	Kind      Kind
	Name      string
	Qualified string // "pkg.Type", "com.acme.Foo", members: owner + "." + name
	Package   string
	Owner     *Decl // enclosing class; nil for top-level classes and free functions
	Path      string
	Start     int // byte offsets into the file
	End       int
	StartLine int
	EndLine   int
	Signature string
	Text      string
}

// Contains reports whether offset falls inside the declaration.
func (d *Decl) Contains(offset int) bool {
	return d != nil && offset >= d.Start && offset < d.End
}

// Container is the name used to decide whether a member belongs to an
// ignored library: the owner class, or the package for free functions.
func (d *Decl) Container() string {
	if d == nil {
		return ""
	}
	if d.Owner != nil {
		return d.Owner.Qualified
	}
	if d.Kind == KindClass {
		return d.Qualified
	}
	return d.Package
}

// Type is a resolved type reference. Class is nil when the reference points
// outside the program or is a bare container (slice, map, array).
type Type struct {
	Class *Decl
	Args  []*Decl
}

func (t Type) Empty() bool {
	if t.Class != nil {
		return false
	}
	for _, a := range t.Args {
		if a != nil {
			return false
		}
	}
	return true
}

type Program interface {
	Language() string
	Root() string
	Files() []string
	Decls(path string) []*Decl
	Source(path string) (string, bool)

	// Enclosing returns the innermost declaration of kind containing offset.
	Enclosing(path string, offset int, kind Kind) *Decl
	Lookup(qualified string) *Decl

	Methods(class *Decl) []*Decl
	Fields(class *Decl) []*Decl
	ParamTypes(method *Decl) []Type
	ReturnTypes(method *Decl) []Type
	FieldType(field *Decl) (Type, bool)
	Calls(method *Decl) []*Decl
	TypeUses(method *Decl) []Type

	IsStandard(qualified string) bool
}
