package tsparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/matzehuels/compcheck/pkg/syntax"
)

// converter turns a tree-sitter tree into a syntax tree.
type converter struct {
	path string
	src  []byte
}

func (c *converter) text(n *sitter.Node) string {
	return string(c.src[n.StartByte():n.EndByte()])
}

func (c *converter) node(kind syntax.Kind, n *sitter.Node) *syntax.Node {
	p := n.StartPoint()
	return &syntax.Node{
		Kind: kind,
		Pos:  syntax.Position{Path: c.path, Line: int(p.Row) + 1, Column: int(p.Column) + 1},
	}
}

func (c *converter) program(root *sitter.Node) *syntax.Node {
	out := c.node(syntax.KindProgram, root)
	out.Body = c.named(root)
	return out
}

// named converts the named children of n, dropping what converts to nil.
func (c *converter) named(n *sitter.Node) []*syntax.Node {
	var out []*syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if v := c.convert(n.NamedChild(i)); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// firstNamed returns the first named child that is not a comment.
func firstNamed(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if ch := n.NamedChild(i); ch.Type() != "comment" {
			return ch
		}
	}
	return nil
}

func (c *converter) convert(n *sitter.Node) *syntax.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "comment", "type_annotation", "type_arguments", "type_parameters",
		"interface_declaration", "type_alias_declaration", "import_statement":
		return nil

	case "expression_statement", "parenthesized_expression", "as_expression",
		"satisfies_expression", "non_null_expression":
		return c.convert(firstNamed(n))

	case "type_assertion":
		// <T>expr
		if k := int(n.NamedChildCount()); k > 0 {
			return c.convert(n.NamedChild(k - 1))
		}
		return nil

	case "identifier", "shorthand_property_identifier":
		out := c.node(syntax.KindIdentifier, n)
		out.Name = c.text(n)
		return out

	case "member_expression":
		out := c.node(syntax.KindMember, n)
		out.Object = c.convert(n.ChildByFieldName("object"))
		if prop := n.ChildByFieldName("property"); prop != nil {
			out.Name = c.text(prop)
		}
		return out

	case "call_expression":
		out := c.node(syntax.KindCall, n)
		out.Callee = c.convert(n.ChildByFieldName("function"))
		if args := n.ChildByFieldName("arguments"); args != nil && args.Type() == "arguments" {
			out.Args = c.named(args)
		}
		return out

	case "new_expression":
		out := c.node(syntax.KindNew, n)
		out.Callee = c.convert(n.ChildByFieldName("constructor"))
		if args := n.ChildByFieldName("arguments"); args != nil {
			out.Args = c.named(args)
		}
		return out

	case "string":
		out := c.node(syntax.KindString, n)
		out.Name = c.stringValue(n)
		return out

	case "array":
		out := c.node(syntax.KindArray, n)
		out.Elems = c.named(n)
		return out

	case "object":
		out := c.node(syntax.KindObject, n)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if p := c.property(n.NamedChild(i)); p != nil {
				out.Elems = append(out.Elems, p)
			}
		}
		return out

	case "spread_element":
		out := c.node(syntax.KindSpread, n)
		out.Value = c.convert(firstNamed(n))
		return out

	case "arrow_function", "function_declaration", "function_expression", "function",
		"generator_function_declaration", "generator_function", "method_definition":
		return c.function(n)

	case "variable_declarator":
		out := c.node(syntax.KindVariable, n)
		if name := n.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
			out.Name = c.text(name)
		}
		out.Value = c.convert(n.ChildByFieldName("value"))
		return out

	case "assignment_expression":
		out := c.node(syntax.KindAssign, n)
		out.Target = c.convert(n.ChildByFieldName("left"))
		out.Value = c.convert(n.ChildByFieldName("right"))
		return out

	case "class_declaration", "abstract_class_declaration", "class":
		out := c.node(syntax.KindClass, n)
		if name := n.ChildByFieldName("name"); name != nil {
			out.Name = c.text(name)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			out.Body = c.named(body)
		}
		return out
	}

	out := c.node(syntax.KindOther, n)
	out.Body = c.named(n)
	return out
}

func (c *converter) function(n *sitter.Node) *syntax.Node {
	out := c.node(syntax.KindFunction, n)
	if name := n.ChildByFieldName("name"); name != nil {
		out.Name = c.text(name)
	}
	body := n.ChildByFieldName("body")
	switch {
	case body == nil:
	case body.Type() == "statement_block":
		out.Body = c.named(body)
	default:
		if v := c.convert(body); v != nil {
			out.Body = []*syntax.Node{v}
		}
	}
	return out
}

// property converts one member of an object literal.
func (c *converter) property(n *sitter.Node) *syntax.Node {
	switch n.Type() {
	case "pair":
		out := c.node(syntax.KindProperty, n)
		out.Name = c.propertyKey(n.ChildByFieldName("key"))
		out.Value = c.convert(n.ChildByFieldName("value"))
		return out
	case "shorthand_property_identifier":
		out := c.node(syntax.KindProperty, n)
		out.Name = c.text(n)
		out.Value = c.convert(n)
		return out
	case "method_definition":
		out := c.node(syntax.KindProperty, n)
		out.Name = c.propertyKey(n.ChildByFieldName("name"))
		out.Value = c.function(n)
		return out
	case "comment":
		return nil
	}
	return c.convert(n)
}

func (c *converter) propertyKey(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "property_identifier", "identifier", "number":
		return c.text(n)
	case "string":
		return c.stringValue(n)
	}
	// computed keys have no static name
	return ""
}

// stringValue returns the unquoted content of a string literal. Escape
// sequences are kept verbatim.
func (c *converter) stringValue(n *sitter.Node) string {
	var b strings.Builder
	for i := 0; i < int(n.NamedChildCount()); i++ {
		switch ch := n.NamedChild(i); ch.Type() {
		case "string_fragment", "escape_sequence":
			b.WriteString(c.text(ch))
		}
	}
	if b.Len() > 0 {
		return b.String()
	}
	return strings.Trim(c.text(n), `"'`)
}
