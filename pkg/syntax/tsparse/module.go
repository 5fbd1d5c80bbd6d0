package tsparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// BindingKind classifies a module-level name.
type BindingKind int

const (
	// BindClass is a class declared in the module.
	BindClass BindingKind = iota
	// BindValue is any other declared value.
	BindValue
	// BindAlias is `const X = Y` or `const X = ns.Y`.
	BindAlias
	// BindImport is a named or default import.
	BindImport
	// BindNamespace is `import * as ns`.
	BindNamespace
)

// Binding is one module-level name.
type Binding struct {
	Kind BindingKind

	// Ref is the referenced local name for BindAlias and the imported name
	// for BindImport ("default" for default imports).
	Ref string

	// Member is set for aliases of a member access, `const X = ns.Y`.
	Member string

	// Source is the module specifier for imports.
	Source string
}

// Export is one exported name.
type Export struct {
	// Local is the module-level name exported, for exports without Source.
	Local string

	// Source and Imported are set for re-exports. Imported is empty for
	// `export * as ns from`.
	Source   string
	Imported string
}

// Module is the import/export surface of a file.
type Module struct {
	Path     string
	Bindings map[string]Binding
	Exports  map[string]Export

	// Stars lists the specifiers of `export * from` statements in order.
	Stars []string
}

// anonymousDefault binds `export default <expression>` when the expression
// is not a plain identifier. It cannot collide with a source identifier.
const anonymousDefault = "*default*"

func newModule(p string) *Module {
	return &Module{Path: p, Bindings: make(map[string]Binding), Exports: make(map[string]Export)}
}

// scanModule records the top-level bindings, imports and exports of root.
func scanModule(p string, root *sitter.Node, src []byte) *Module {
	s := &moduleScanner{m: newModule(p), src: src}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		s.statement(root.NamedChild(i))
	}
	return s.m
}

type moduleScanner struct {
	m   *Module
	src []byte
}

func (s *moduleScanner) text(n *sitter.Node) string {
	return string(s.src[n.StartByte():n.EndByte()])
}

func (s *moduleScanner) source(n *sitter.Node) string {
	src := n.ChildByFieldName("source")
	if src == nil {
		return ""
	}
	c := &converter{src: s.src}
	return c.stringValue(src)
}

func (s *moduleScanner) statement(n *sitter.Node) {
	switch n.Type() {
	case "import_statement":
		s.importStatement(n)
	case "export_statement":
		s.exportStatement(n)
	default:
		s.declaration(n, false)
	}
}

// declaration binds the names declared by n and returns them.
func (s *moduleScanner) declaration(n *sitter.Node, exported bool) []string {
	var names []string
	bind := func(name string, b Binding) {
		if name == "" {
			return
		}
		s.m.Bindings[name] = b
		names = append(names, name)
	}

	switch n.Type() {
	case "class_declaration", "abstract_class_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			bind(s.text(name), Binding{Kind: BindClass})
		}
	case "function_declaration", "generator_function_declaration", "enum_declaration", "function_signature":
		if name := n.ChildByFieldName("name"); name != nil {
			bind(s.text(name), Binding{Kind: BindValue})
		}
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			d := n.NamedChild(i)
			if d.Type() != "variable_declarator" {
				continue
			}
			name := d.ChildByFieldName("name")
			if name == nil || name.Type() != "identifier" {
				continue
			}
			bind(s.text(name), s.valueBinding(d.ChildByFieldName("value")))
		}
	case "ambient_declaration":
		// declare class X {}, declare const x: T
		for i := 0; i < int(n.NamedChildCount()); i++ {
			names = append(names, s.declaration(n.NamedChild(i), exported)...)
		}
	}

	if exported {
		for _, name := range names {
			s.m.Exports[name] = Export{Local: name}
		}
	}
	return names
}

func (s *moduleScanner) valueBinding(v *sitter.Node) Binding {
	v = unwrapExpression(v)
	if v == nil {
		return Binding{Kind: BindValue}
	}
	switch v.Type() {
	case "identifier":
		return Binding{Kind: BindAlias, Ref: s.text(v)}
	case "member_expression":
		obj, prop := v.ChildByFieldName("object"), v.ChildByFieldName("property")
		if obj != nil && prop != nil && obj.Type() == "identifier" {
			return Binding{Kind: BindAlias, Ref: s.text(obj), Member: s.text(prop)}
		}
	case "class":
		return Binding{Kind: BindClass}
	}
	return Binding{Kind: BindValue}
}

func unwrapExpression(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
			n = firstNamed(n)
		default:
			return n
		}
	}
	return nil
}

func (s *moduleScanner) importStatement(n *sitter.Node) {
	source := s.source(n)
	if source == "" {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			ch := clause.NamedChild(j)
			switch ch.Type() {
			case "identifier":
				s.m.Bindings[s.text(ch)] = Binding{Kind: BindImport, Ref: "default", Source: source}
			case "namespace_import":
				if id := firstIdentifier(ch); id != nil {
					s.m.Bindings[s.text(id)] = Binding{Kind: BindNamespace, Source: source}
				}
			case "named_imports":
				for k := 0; k < int(ch.NamedChildCount()); k++ {
					spec := ch.NamedChild(k)
					if spec.Type() != "import_specifier" {
						continue
					}
					imported, local := s.specifier(spec)
					if local != "" {
						s.m.Bindings[local] = Binding{Kind: BindImport, Ref: imported, Source: source}
					}
				}
			}
		}
	}
}

// specifier returns the external and local names of an import or export
// specifier.
func (s *moduleScanner) specifier(n *sitter.Node) (name, alias string) {
	if nm := n.ChildByFieldName("name"); nm != nil {
		name = s.specifierName(nm)
	}
	alias = name
	if al := n.ChildByFieldName("alias"); al != nil {
		alias = s.specifierName(al)
	}
	return name, alias
}

func (s *moduleScanner) specifierName(n *sitter.Node) string {
	if n.Type() == "string" {
		c := &converter{src: s.src}
		return c.stringValue(n)
	}
	return s.text(n)
}

func (s *moduleScanner) exportStatement(n *sitter.Node) {
	source := s.source(n)

	if d := n.ChildByFieldName("declaration"); d != nil {
		names := s.declaration(d, true)
		if isDefaultExport(n) && len(names) > 0 {
			s.m.Exports["default"] = Export{Local: names[0]}
		}
		return
	}
	if v := n.ChildByFieldName("value"); v != nil {
		// export default <expression>
		local := anonymousDefault
		v = unwrapExpression(v)
		switch {
		case v == nil:
		case v.Type() == "identifier":
			local = s.text(v)
		case v.Type() == "class" && v.ChildByFieldName("name") != nil:
			// export default class Named {} parsed as an expression
			local = s.text(v.ChildByFieldName("name"))
			s.m.Bindings[local] = Binding{Kind: BindClass}
		default:
			s.m.Bindings[local] = s.valueBinding(v)
		}
		s.m.Exports["default"] = Export{Local: local}
		return
	}

	star := false
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		switch ch.Type() {
		case "*":
			star = true
		case "namespace_export":
			if id := firstIdentifier(ch); id != nil && source != "" {
				s.m.Exports[s.specifierName(id)] = Export{Source: source}
			}
		case "export_clause":
			for j := 0; j < int(ch.NamedChildCount()); j++ {
				spec := ch.NamedChild(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				name, alias := s.specifier(spec)
				if source != "" {
					s.m.Exports[alias] = Export{Source: source, Imported: name}
				} else {
					s.m.Exports[alias] = Export{Local: name}
				}
			}
		}
	}
	if star && source != "" && !hasNamedChild(n, "namespace_export") {
		s.m.Stars = append(s.m.Stars, source)
	}
}

func isDefaultExport(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "default" {
			return true
		}
	}
	return false
}

func hasNamedChild(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == typ {
			return true
		}
	}
	return false
}

func firstIdentifier(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if ch := n.NamedChild(i); ch.Type() == "identifier" || ch.Type() == "string" {
			return ch
		}
	}
	return nil
}

// isRelative reports whether spec names a file rather than a package.
func isRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || spec == "." || spec == ".."
}
