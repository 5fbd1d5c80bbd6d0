package tsparse

import (
	"path"
	"strings"

	"github.com/matzehuels/compcheck/pkg/syntax"
)

// maxLinkDepth bounds import and re-export chains.
const maxLinkDepth = 32

// resolveExtensions are tried in order when a relative specifier names no
// file directly.
var resolveExtensions = []string{".ts", ".tsx", ".d.ts", ".js", ".jsx", ".mjs", ".cjs", ".mts", ".cts"}

// Linker resolves names across the modules of one program.
type Linker struct {
	modules map[string]*Module
}

// NewLinker indexes modules by path.
func NewLinker(modules []*Module) *Linker {
	l := &Linker{modules: make(map[string]*Module, len(modules))}
	for _, m := range modules {
		if m != nil {
			l.modules[m.Path] = m
		}
	}
	return l
}

// Resolver returns the symbol resolver for the unit at p.
func (l *Linker) Resolver(p string) syntax.SymbolResolver {
	return syntax.SymbolResolverFunc(func(n *syntax.Node) (*syntax.Symbol, error) {
		return l.DeclarationOf(p, n), nil
	})
}

// DeclarationOf returns the declaration n refers to from within the unit at
// p, or nil. Identifiers are looked up among module-level bindings; member
// accesses are resolved through namespace imports.
func (l *Linker) DeclarationOf(p string, n *syntax.Node) *syntax.Symbol {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case syntax.KindIdentifier:
		return l.local(p, n.Name, 0)
	case syntax.KindMember:
		if n.Object == nil {
			return nil
		}
		return l.member(l.DeclarationOf(p, n.Object), n.Name, 0)
	}
	return nil
}

// local resolves a module-level name of the module at p.
func (l *Linker) local(p, name string, depth int) *syntax.Symbol {
	if depth > maxLinkDepth {
		return nil
	}
	m := l.modules[p]
	if m == nil {
		return nil
	}
	b, ok := m.Bindings[name]
	if !ok {
		return nil
	}

	display := name
	if name == anonymousDefault {
		display = ""
	}
	switch b.Kind {
	case BindClass:
		return &syntax.Symbol{Name: display, Kind: syntax.SymbolClass, Path: p}
	case BindValue:
		return &syntax.Symbol{Name: display, Kind: syntax.SymbolValue, Path: p}
	case BindAlias:
		target := l.local(p, b.Ref, depth+1)
		if b.Member != "" {
			target = l.member(target, b.Member, depth+1)
		}
		return &syntax.Symbol{Name: display, Kind: syntax.SymbolAlias, Path: p, Target: target}
	case BindImport:
		target := l.imported(p, b.Source, b.Ref, depth+1)
		if target != nil && target.Kind == syntax.SymbolExternal && b.Ref == "default" {
			target.Name = name
		}
		return &syntax.Symbol{Name: name, Kind: syntax.SymbolAlias, Path: p, Target: target}
	case BindNamespace:
		return &syntax.Symbol{Name: name, Kind: syntax.SymbolNamespace, Path: l.Module(p, b.Source)}
	}
	return nil
}

// member resolves `ns.name` where ns resolved to sym.
func (l *Linker) member(sym *syntax.Symbol, name string, depth int) *syntax.Symbol {
	sym = sym.Unwrap()
	if sym == nil || sym.Kind != syntax.SymbolNamespace {
		return nil
	}
	if sym.Path == "" {
		return &syntax.Symbol{Name: name, Kind: syntax.SymbolExternal}
	}
	return l.export(sym.Path, name, depth+1)
}

// imported resolves name imported from specifier by the module at from.
func (l *Linker) imported(from, specifier, name string, depth int) *syntax.Symbol {
	target := l.Module(from, specifier)
	if target == "" {
		return &syntax.Symbol{Name: name, Kind: syntax.SymbolExternal}
	}
	return l.export(target, name, depth)
}

// export resolves an exported name of the module at p.
func (l *Linker) export(p, name string, depth int) *syntax.Symbol {
	if depth > maxLinkDepth {
		return nil
	}
	m := l.modules[p]
	if m == nil {
		return nil
	}
	if e, ok := m.Exports[name]; ok {
		switch {
		case e.Source == "":
			return l.local(p, e.Local, depth+1)
		case e.Imported == "":
			return &syntax.Symbol{Name: name, Kind: syntax.SymbolNamespace, Path: l.Module(p, e.Source)}
		default:
			target := l.imported(p, e.Source, e.Imported, depth+1)
			return &syntax.Symbol{Name: name, Kind: syntax.SymbolAlias, Path: p, Target: target}
		}
	}
	if name == "default" {
		return nil
	}
	for _, specifier := range m.Stars {
		target := l.Module(p, specifier)
		if target == "" {
			continue
		}
		if sym := l.export(target, name, depth+1); sym != nil {
			return sym
		}
	}
	return nil
}

// Module returns the path of the module specifier refers to from the module at
// from, or "" when specifier is a package name or names no known module.
func (l *Linker) Module(from, specifier string) string {
	if !isRelative(specifier) {
		return ""
	}
	base := path.Join(path.Dir(from), specifier)
	if _, ok := l.modules[base]; ok {
		return base
	}
	candidates := []string{base}
	// import "./x.js" may refer to x.ts
	if ext := path.Ext(base); ext == ".js" || ext == ".mjs" || ext == ".cjs" || ext == ".jsx" {
		candidates = append(candidates, strings.TrimSuffix(base, ext))
	}
	for _, c := range candidates {
		for _, ext := range resolveExtensions {
			if _, ok := l.modules[c+ext]; ok {
				return c + ext
			}
		}
	}
	for _, ext := range resolveExtensions {
		if p := path.Join(base, "index"+ext); l.modules[p] != nil {
			return p
		}
	}
	return ""
}
