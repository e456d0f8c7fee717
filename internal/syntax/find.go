package syntax

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vd09-projects/relctx/internal/utils"
)

var (
	ErrNotFound  = errors.New("symbol not found")
	ErrAmbiguous = errors.New("ambiguous symbol")
)

// Find resolves a user-typed symbol: a fully qualified name, a Go method
// expression such as "pkg.(*T).M", or an unambiguous suffix like "T.M".
func Find(prog Program, symbol string) (*Decl, error) {
	symbol = strings.TrimSpace(symbol)
	if d := prog.Lookup(symbol); d != nil {
		return d, nil
	}
	if i := strings.IndexByte(symbol, '('); i >= 0 {
		if j := strings.IndexByte(symbol[i:], ')'); j >= 0 {
			symbol = symbol[:i] + utils.RecvBaseType(symbol[i:i+j+1]) + symbol[i+j+1:]
			if d := prog.Lookup(symbol); d != nil {
				return d, nil
			}
		}
	}

	var matches []*Decl
	for _, path := range prog.Files() {
		for _, d := range prog.Decls(path) {
			q := d.Qualified
			if q == symbol || strings.HasSuffix(q, "."+symbol) || strings.HasSuffix(q, "/"+symbol) {
				matches = append(matches, d)
			}
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	case 1:
		return matches[0], nil
	}
	names := make([]string, 0, len(matches))
	for _, d := range matches {
		names = append(names, d.Qualified)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("%w: %s matches %s", ErrAmbiguous, symbol, strings.Join(names, ", "))
}
