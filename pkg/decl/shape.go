package decl

import (
	"slices"

	"github.com/matzehuels/compcheck/pkg/syntax"
)

// Shape is a classified call site. The set of implementations is closed.
type Shape interface {
	// Site returns the call node the shape was recognized at.
	Site() *syntax.Node
	shape()
}

// ValidatorRegistration declares dependency and conflict constraints for
// Subject. Dependencies and Conflicts are the raw array nodes, or nil when
// absent or not array literals.
type ValidatorRegistration struct {
	Call         *syntax.Node
	Subject      *syntax.Node
	Dependencies *syntax.Node
	Conflicts    *syntax.Node
}

// TemplateRegistration declares a named, ordered component list.
type TemplateRegistration struct {
	Call       *syntax.Node
	Name       string
	Components *syntax.Node
}

// QueryDeclaration declares a named component filter. Options is the
// object literal carrying all, any, none, tags and withoutTags.
type QueryDeclaration struct {
	Call    *syntax.Node
	Name    string
	Options *syntax.Node
}

// EntityCreation creates a new composite object.
type EntityCreation struct {
	Call *syntax.Node
}

// SequentialAttach attaches Component to the object Receiver evaluates to.
type SequentialAttach struct {
	Call      *syntax.Node
	Receiver  *syntax.Node
	Component *syntax.Node
}

func (s ValidatorRegistration) Site() *syntax.Node { return s.Call }
func (s TemplateRegistration) Site() *syntax.Node  { return s.Call }
func (s QueryDeclaration) Site() *syntax.Node      { return s.Call }
func (s EntityCreation) Site() *syntax.Node        { return s.Call }
func (s SequentialAttach) Site() *syntax.Node      { return s.Call }

func (ValidatorRegistration) shape() {}
func (TemplateRegistration) shape()  {}
func (QueryDeclaration) shape()      {}
func (EntityCreation) shape()        {}
func (SequentialAttach) shape()      {}

// Methods lists the method names recognized for each shape.
type Methods struct {
	Validator []string `json:"validator" toml:"validator" yaml:"validator"`
	Template  []string `json:"template" toml:"template" yaml:"template"`
	Query     []string `json:"query" toml:"query" yaml:"query"`
	Create    []string `json:"create" toml:"create" yaml:"create"`
	Attach    []string `json:"attach" toml:"attach" yaml:"attach"`
}

// DefaultMethods returns the framework's standard method names.
func DefaultMethods() Methods {
	return Methods{
		Validator: []string{"registerValidator"},
		Template:  []string{"registerTemplate"},
		Query:     []string{"createQuery"},
		Create:    []string{"createEntity"},
		Attach:    []string{"attach", "addComponent"},
	}
}

// WithDefaults fills empty lists from [DefaultMethods].
func (m Methods) WithDefaults() Methods {
	d := DefaultMethods()
	if len(m.Validator) == 0 {
		m.Validator = d.Validator
	}
	if len(m.Template) == 0 {
		m.Template = d.Template
	}
	if len(m.Query) == 0 {
		m.Query = d.Query
	}
	if len(m.Create) == 0 {
		m.Create = d.Create
	}
	if len(m.Attach) == 0 {
		m.Attach = d.Attach
	}
	return m
}

// Classify returns the shape of call, or nil when call is not one of the
// recognized shapes.
func (m Methods) Classify(call *syntax.Node) Shape {
	if call == nil || call.Kind != syntax.KindCall || call.Callee == nil {
		return nil
	}
	var name string
	var receiver *syntax.Node
	switch call.Callee.Kind {
	case syntax.KindMember:
		name, receiver = call.Callee.Name, call.Callee.Object
	case syntax.KindIdentifier:
		name = call.Callee.Name
	default:
		return nil
	}

	switch {
	case slices.Contains(m.Validator, name):
		if len(call.Args) == 0 {
			return nil
		}
		opts := call.Arg(1)
		return ValidatorRegistration{
			Call:         call,
			Subject:      call.Arg(0),
			Dependencies: arrayProperty(opts, "dependencies"),
			Conflicts:    arrayProperty(opts, "conflicts"),
		}
	case slices.Contains(m.Template, name):
		label, opts := labelAndOptions(call)
		if opts == nil {
			return nil
		}
		return TemplateRegistration{Call: call, Name: label, Components: arrayProperty(opts, "components")}
	case slices.Contains(m.Query, name):
		label, opts := labelAndOptions(call)
		if opts == nil {
			return nil
		}
		return QueryDeclaration{Call: call, Name: label, Options: opts}
	case slices.Contains(m.Create, name):
		return EntityCreation{Call: call}
	case slices.Contains(m.Attach, name):
		if receiver == nil || len(call.Args) == 0 {
			return nil
		}
		return SequentialAttach{Call: call, Receiver: receiver, Component: call.Arg(0)}
	}
	return nil
}

// Scan classifies every call under root, in source order.
func (m Methods) Scan(root *syntax.Node) []Shape {
	var shapes []Shape
	for _, call := range syntax.Calls(root) {
		if s := m.Classify(call); s != nil {
			shapes = append(shapes, s)
		}
	}
	return shapes
}

// labelAndOptions accepts both (name, {...}) and ({...}).
func labelAndOptions(call *syntax.Node) (string, *syntax.Node) {
	first := call.Arg(0)
	if first != nil && first.Kind == syntax.KindObject {
		return "", first
	}
	label := ""
	if first != nil && first.Kind == syntax.KindString {
		label = first.Name
	}
	opts := call.Arg(1)
	if opts == nil || opts.Kind != syntax.KindObject {
		return label, nil
	}
	return label, opts
}

func arrayProperty(obj *syntax.Node, key string) *syntax.Node {
	v := obj.Property(key)
	if v == nil || v.Kind != syntax.KindArray {
		return nil
	}
	return v
}
