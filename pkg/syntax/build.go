package syntax

// File builds a program node for path, links parents, and numbers each
// node's line in pre-order so that hand-built trees have stable positions.
func File(path string, body ...*Node) *Node {
	root := &Node{Kind: KindProgram, Body: body}
	Link(root)
	line := 0
	Walk(root, func(n *Node) bool {
		line++
		if n.Pos == (Position{}) {
			n.Pos = Position{Path: path, Line: line, Column: 1}
		}
		return true
	})
	return root
}

func Ident(name string) *Node { return &Node{Kind: KindIdentifier, Name: name} }

func Str(s string) *Node { return &Node{Kind: KindString, Name: s} }

func Member(object *Node, property string) *Node {
	return &Node{Kind: KindMember, Object: object, Name: property}
}

func Call(callee *Node, args ...*Node) *Node {
	return &Node{Kind: KindCall, Callee: callee, Args: args}
}

// MethodCall is shorthand for Call(Member(receiver, method), args...).
func MethodCall(receiver *Node, method string, args ...*Node) *Node {
	return Call(Member(receiver, method), args...)
}

func New(ctor *Node, args ...*Node) *Node {
	return &Node{Kind: KindNew, Callee: ctor, Args: args}
}

func Array(elems ...*Node) *Node { return &Node{Kind: KindArray, Elems: elems} }

func Object(props ...*Node) *Node { return &Node{Kind: KindObject, Elems: props} }

func Prop(key string, value *Node) *Node {
	return &Node{Kind: KindProperty, Name: key, Value: value}
}

func Spread(value *Node) *Node { return &Node{Kind: KindSpread, Value: value} }

func Func(body ...*Node) *Node { return &Node{Kind: KindFunction, Body: body} }

func Var(name string, value *Node) *Node {
	return &Node{Kind: KindVariable, Name: name, Value: value}
}

func Assign(target, value *Node) *Node {
	return &Node{Kind: KindAssign, Target: target, Value: value}
}

func Class(name string, body ...*Node) *Node {
	return &Node{Kind: KindClass, Name: name, Body: body}
}

// Block groups statements that have no dedicated kind.
func Block(body ...*Node) *Node { return &Node{Kind: KindOther, Body: body} }
