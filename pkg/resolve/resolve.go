// Package resolve maps syntax nodes that reference component types to
// canonical component names.
//
// Resolution is semantic first: when the unit carries a
// [syntax.SymbolResolver], the node's declaration is looked up and alias
// chains (imports, re-exports, value aliases) are followed to the declaring
// class. When no resolver is configured, the lookup fails, or the declaration
// is not a class, resolution falls back to lexical extraction: an identifier
// yields its own name and a member access yields its final property.
//
// Anything else (literals, computed expressions, spreads) resolves to the
// empty string, which callers treat as "no information".
package resolve

import "github.com/matzehuels/compcheck/pkg/syntax"

// Resolver resolves component references within one unit.
// The zero value resolves lexically.
type Resolver struct {
	Symbols syntax.SymbolResolver
}

// New returns a resolver backed by symbols, which may be nil.
func New(symbols syntax.SymbolResolver) *Resolver {
	return &Resolver{Symbols: symbols}
}

// Resolve returns the canonical component name for n, or "" when n cannot
// name a component.
func (r *Resolver) Resolve(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	if name := r.semantic(n); name != "" {
		return name
	}
	return Lexical(n)
}

func (r *Resolver) semantic(n *syntax.Node) string {
	if r == nil || r.Symbols == nil {
		return ""
	}
	if n.Kind != syntax.KindIdentifier && n.Kind != syntax.KindMember {
		return ""
	}
	sym, err := r.Symbols.DeclarationOf(n)
	if err != nil || sym == nil {
		return ""
	}
	if decl := sym.Unwrap(); decl.IsType() {
		return decl.Name
	}
	return ""
}

// Lexical extracts a name from the node's own text.
func Lexical(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case syntax.KindIdentifier, syntax.KindMember:
		return n.Name
	}
	return ""
}
