package decl

import "github.com/matzehuels/compcheck/pkg/syntax"

// Resolver resolves a component reference to its canonical name, returning
// "" when the node cannot be resolved.
type Resolver interface {
	Resolve(n *syntax.Node) string
}

// Entry is one resolved component mention together with the node it was
// found at.
type Entry struct {
	Name string
	Node *syntax.Node
}

// Names returns the entry names in order.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Declaration is a resolved [ValidatorRegistration].
type Declaration struct {
	Subject      string
	Site         *syntax.Node
	Dependencies []Entry
	Conflicts    []Entry
}

// Mentions returns the subject and every dependency and conflict name.
func (d Declaration) Mentions() []string {
	names := []string{d.Subject}
	names = append(names, Names(d.Dependencies)...)
	return append(names, Names(d.Conflicts)...)
}

// ExtractDeclaration resolves the subject and constraint arrays of v. It
// reports false when the subject cannot be resolved.
func ExtractDeclaration(v ValidatorRegistration, r Resolver) (Declaration, bool) {
	subject := r.Resolve(v.Subject)
	if subject == "" {
		return Declaration{}, false
	}
	return Declaration{
		Subject:      subject,
		Site:         v.Call,
		Dependencies: ResolveArray(v.Dependencies, r),
		Conflicts:    ResolveArray(v.Conflicts, r),
	}, true
}

// ResolveArray resolves every element of an array literal, skipping
// elements that do not resolve.
func ResolveArray(arr *syntax.Node, r Resolver) []Entry {
	if arr == nil || arr.Kind != syntax.KindArray {
		return nil
	}
	var entries []Entry
	for _, el := range arr.Elems {
		if name := r.Resolve(el); name != "" {
			entries = append(entries, Entry{Name: name, Node: el})
		}
	}
	return entries
}

// StringArray collects the string literal elements of an array literal.
func StringArray(arr *syntax.Node) []Entry {
	if arr == nil || arr.Kind != syntax.KindArray {
		return nil
	}
	var entries []Entry
	for _, el := range arr.Elems {
		if el.Kind == syntax.KindString {
			entries = append(entries, Entry{Name: el.Name, Node: el})
		}
	}
	return entries
}

// ExtractTemplate resolves the ordered component list of t. Each entry is
// either a component reference or an object literal with a `type` field.
func ExtractTemplate(t TemplateRegistration, r Resolver) []Entry {
	if t.Components == nil {
		return nil
	}
	var entries []Entry
	for _, el := range t.Components.Elems {
		ref := el
		if el.Kind == syntax.KindObject {
			ref = el.Property("type")
		}
		if name := r.Resolve(ref); name != "" {
			entries = append(entries, Entry{Name: name, Node: el})
		}
	}
	return entries
}

// Filter is a resolved [QueryDeclaration].
type Filter struct {
	Name        string
	Site        *syntax.Node
	All         []Entry
	Any         []Entry
	None        []Entry
	Tags        []Entry
	WithoutTags []Entry
}

// Mentions returns every component name in all, any and none.
func (f Filter) Mentions() []string {
	var names []string
	for _, list := range [][]Entry{f.All, f.Any, f.None} {
		names = append(names, Names(list)...)
	}
	return names
}

// ExtractFilter resolves the component and tag arrays of q.
func ExtractFilter(q QueryDeclaration, r Resolver) Filter {
	return Filter{
		Name:        q.Name,
		Site:        q.Call,
		All:         ResolveArray(q.Options.Property("all"), r),
		Any:         ResolveArray(q.Options.Property("any"), r),
		None:        ResolveArray(q.Options.Property("none"), r),
		Tags:        StringArray(q.Options.Property("tags")),
		WithoutTags: StringArray(q.Options.Property("withoutTags")),
	}
}

// AttachedComponent resolves the component argument of a. `new C(...)`
// resolves to C.
func AttachedComponent(a SequentialAttach, r Resolver) (Entry, bool) {
	ref := a.Component
	if ref != nil && ref.Kind == syntax.KindNew {
		ref = ref.Callee
	}
	name := r.Resolve(ref)
	if name == "" {
		return Entry{}, false
	}
	return Entry{Name: name, Node: a.Component}, true
}
