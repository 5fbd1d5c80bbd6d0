package syntax

import "fmt"

// Kind identifies the syntactic category of a [Node].
type Kind int

const (
	KindOther Kind = iota
	KindProgram
	KindIdentifier
	KindMember
	KindCall
	KindNew
	KindString
	KindArray
	KindObject
	KindProperty
	KindSpread
	KindFunction
	KindVariable
	KindAssign
	KindClass
)

var kindNames = [...]string{
	KindOther:      "other",
	KindProgram:    "program",
	KindIdentifier: "identifier",
	KindMember:     "member",
	KindCall:       "call",
	KindNew:        "new",
	KindString:     "string",
	KindArray:      "array",
	KindObject:     "object",
	KindProperty:   "property",
	KindSpread:     "spread",
	KindFunction:   "function",
	KindVariable:   "variable",
	KindAssign:     "assign",
	KindClass:      "class",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Position is a 1-based source location.
type Position struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (p Position) String() string {
	if p.Path == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Path, p.Line, p.Column)
}

// Node is a syntax tree node. Which fields are meaningful depends on Kind:
//
//   - KindIdentifier: Name
//   - KindMember: Object and the accessed property in Name
//   - KindCall, KindNew: Callee and Args
//   - KindString: the unquoted literal in Name
//   - KindArray: Elems
//   - KindObject: Elems, each a KindProperty or KindSpread
//   - KindProperty: the key in Name, Value
//   - KindSpread: Value
//   - KindVariable: the bound name in Name (empty for patterns), Value
//   - KindAssign: Target, Value
//   - KindFunction, KindClass: optional Name, Body
//   - KindProgram, KindOther: Body
type Node struct {
	Kind   Kind
	Name   string
	Pos    Position
	Parent *Node

	Callee *Node
	Object *Node
	Args   []*Node
	Elems  []*Node
	Value  *Node
	Target *Node
	Body   []*Node
}

// Children returns the direct children of n in source order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	add := func(c *Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	add(n.Callee)
	add(n.Object)
	add(n.Target)
	for _, a := range n.Args {
		add(a)
	}
	for _, e := range n.Elems {
		add(e)
	}
	add(n.Value)
	for _, b := range n.Body {
		add(b)
	}
	return out
}

// Property returns the value of the property named key when n is an object
// literal. Spread elements are skipped. The last matching property wins.
func (n *Node) Property(key string) *Node {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	var v *Node
	for _, p := range n.Elems {
		if p.Kind == KindProperty && p.Name == key {
			v = p.Value
		}
	}
	return v
}

// Arg returns the i-th call argument, or nil.
func (n *Node) Arg(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Args) {
		return nil
	}
	return n.Args[i]
}

// EnclosingFunction returns the nearest KindFunction ancestor of n, or nil
// when n is at program level.
func (n *Node) EnclosingFunction() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == KindFunction {
			return p
		}
	}
	return nil
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Name != "" {
		return fmt.Sprintf("%s(%s)@%s", n.Kind, n.Name, n.Pos)
	}
	return fmt.Sprintf("%s@%s", n.Kind, n.Pos)
}

// Walk traverses the tree rooted at n in depth-first pre-order. If fn returns
// false the children of the current node are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Calls returns every KindCall node under root in pre-order.
func Calls(root *Node) []*Node {
	var calls []*Node
	Walk(root, func(n *Node) bool {
		if n.Kind == KindCall {
			calls = append(calls, n)
		}
		return true
	})
	return calls
}

// Link sets the Parent pointer of every node under root.
func Link(root *Node) {
	Walk(root, func(n *Node) bool {
		for _, c := range n.Children() {
			c.Parent = n
		}
		return true
	})
}
