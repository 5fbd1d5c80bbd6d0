package syntax

// SymbolKind classifies what a [Symbol] declares.
type SymbolKind int

const (
	// SymbolClass is a class or record type declaration.
	SymbolClass SymbolKind = iota
	// SymbolValue is a non-class value: function, variable, enum member.
	SymbolValue
	// SymbolAlias forwards to Target: an import binding, a re-export or a
	// value alias such as `const P = Position`.
	SymbolAlias
	// SymbolNamespace is a namespace import or `export * as ns`.
	SymbolNamespace
	// SymbolExternal is a binding imported from code outside the program.
	// Name holds the imported name.
	SymbolExternal
)

// maxAliasDepth bounds alias chains so that cyclic re-exports terminate.
const maxAliasDepth = 32

// Symbol is a declaration as seen by a [SymbolResolver].
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Path   string  // declaring unit, or the target module for namespaces
	Target *Symbol // set for SymbolAlias
}

// IsType reports whether s declares a type the checker can name: a class,
// or an external binding whose declaration is out of view.
func (s *Symbol) IsType() bool {
	return s != nil && (s.Kind == SymbolClass || s.Kind == SymbolExternal)
}

// Unwrap follows alias targets and returns the first non-alias symbol. It
// returns nil for a nil symbol, for an alias without a target and for chains
// deeper than an internal limit.
func (s *Symbol) Unwrap() *Symbol {
	for i := 0; s != nil && i < maxAliasDepth; i++ {
		if s.Kind != SymbolAlias {
			return s
		}
		s = s.Target
	}
	return nil
}

// SymbolResolver maps a node to the declaration it references. It returns
// (nil, nil) when the node has no known declaration.
type SymbolResolver interface {
	DeclarationOf(n *Node) (*Symbol, error)
}

// SymbolResolverFunc adapts a function to [SymbolResolver].
type SymbolResolverFunc func(n *Node) (*Symbol, error)

func (f SymbolResolverFunc) DeclarationOf(n *Node) (*Symbol, error) { return f(n) }
