package check

import (
	"github.com/matzehuels/compcheck/pkg/constraint"
	"github.com/matzehuels/compcheck/pkg/decl"
	"github.com/matzehuels/compcheck/pkg/finding"
	"github.com/matzehuels/compcheck/pkg/syntax"
)

// ValidateSequential tracks objects created by createEntity and checks each
// attach against what the same object already holds.
//
// Objects are identified by the creating call. A binding (`const e = ...` or
// `e = ...`) maps a name to an object within the enclosing function; chains
// like `world.createEntity().attach(A).attach(B)` are followed back to the
// creating call. Attach calls whose receiver cannot be traced are ignored.
func ValidateSequential(g *constraint.Graph, root *syntax.Node, methods decl.Methods, r decl.Resolver) []finding.Finding {
	s := &sequential{
		g:       g,
		methods: methods,
		r:       r,
		created: make(map[*syntax.Node]*composition),
	}
	s.push()
	s.visit(root)
	return s.out
}

type sequential struct {
	g       *constraint.Graph
	methods decl.Methods
	r       decl.Resolver
	created map[*syntax.Node]*composition
	scopes  []map[string]*composition
	out     []finding.Finding
}

func (s *sequential) push() { s.scopes = append(s.scopes, make(map[string]*composition)) }

func (s *sequential) pop() { s.scopes = s.scopes[:len(s.scopes)-1] }

func (s *sequential) scope() map[string]*composition { return s.scopes[len(s.scopes)-1] }

// visit walks in evaluation order: operands before the expression using
// them, so a receiver chain is processed inside out.
func (s *sequential) visit(n *syntax.Node) {
	if n == nil {
		return
	}
	if n.Kind == syntax.KindFunction {
		s.push()
		for _, c := range n.Children() {
			s.visit(c)
		}
		s.pop()
		return
	}
	for _, c := range n.Children() {
		s.visit(c)
	}

	switch n.Kind {
	case syntax.KindCall:
		s.call(n)
	case syntax.KindVariable:
		if n.Name != "" {
			s.bind(n.Name, n.Value)
		}
	case syntax.KindAssign:
		if n.Target != nil && n.Target.Kind == syntax.KindIdentifier {
			s.bind(n.Target.Name, n.Value)
		}
	}
}

func (s *sequential) call(n *syntax.Node) {
	switch shape := s.methods.Classify(n).(type) {
	case decl.EntityCreation:
		s.created[n] = newComposition()
	case decl.SequentialAttach:
		comp := s.compositionOf(shape.Receiver)
		if comp == nil {
			return
		}
		if e, ok := decl.AttachedComponent(shape, s.r); ok {
			s.out = append(s.out, comp.attach(s.g, e)...)
		}
	}
}

// bind points name at the object value evaluates to, or forgets name when
// value is not a traceable object.
func (s *sequential) bind(name string, value *syntax.Node) {
	if comp := s.compositionOf(value); comp != nil {
		s.scope()[name] = comp
		return
	}
	delete(s.scope(), name)
}

func (s *sequential) compositionOf(n *syntax.Node) *composition {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case syntax.KindIdentifier:
		return s.scope()[n.Name]
	case syntax.KindCall:
		switch shape := s.methods.Classify(n).(type) {
		case decl.EntityCreation:
			return s.created[n]
		case decl.SequentialAttach:
			return s.compositionOf(shape.Receiver)
		}
	}
	return nil
}
