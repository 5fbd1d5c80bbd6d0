// Package check runs the component consistency checks over one unit.
//
// For each unit a [constraint.Graph] is built from the snapshot registry plus
// the unit's own declarations, then:
//
//   - validator registrations are checked for self references, duplicate
//     entries, contradictions and dependency cycles
//   - templates are replayed in order against their own history
//   - queries are checked for required/excluded overlaps, duplicate entries
//     and mutually exclusive required components
//   - sequential builders (createEntity followed by attach calls) are tracked
//     per binding within each function body
//
// Every check only produces findings. Nodes that cannot be resolved are
// skipped.
//
// Composition tracking stops at function boundaries: a helper that receives
// an entity as a parameter and attaches components to it is not connected to
// the caller's composition, so ordering problems spanning such helpers are
// not reported.
package check

import (
	"github.com/matzehuels/compcheck/pkg/constraint"
	"github.com/matzehuels/compcheck/pkg/decl"
	"github.com/matzehuels/compcheck/pkg/finding"
	"github.com/matzehuels/compcheck/pkg/registry"
	"github.com/matzehuels/compcheck/pkg/resolve"
	"github.com/matzehuels/compcheck/pkg/syntax"
)

// Checker checks units against a shared registry. It holds no per-unit state
// and may be used from several goroutines.
type Checker struct {
	Methods  decl.Methods
	Registry *registry.Registry
	Options  constraint.Options

	// SeedPath locates findings that stem from seeds alone, normally the
	// config file. Empty means DefaultSeedPath.
	SeedPath string
}

// DefaultSeedPath locates seed findings when no config file is known.
const DefaultSeedPath = "<config>"

// New returns a checker. Empty method lists fall back to the defaults.
func New(reg *registry.Registry, methods decl.Methods, opts constraint.Options) *Checker {
	return &Checker{Methods: methods.WithDefaults(), Registry: reg, Options: opts}
}

// Check returns the findings for u in discovery order.
func (c *Checker) Check(u *syntax.Unit) []finding.Finding {
	if u == nil || u.Root == nil {
		return nil
	}
	methods := c.Methods.WithDefaults()
	r := resolve.New(u.Symbols)
	shapes := methods.Scan(u.Root)

	var locals []decl.Declaration
	for _, s := range shapes {
		if v, ok := s.(decl.ValidatorRegistration); ok {
			if d, ok := decl.ExtractDeclaration(v, r); ok {
				locals = append(locals, d)
			}
		}
	}
	g := constraint.New(c.Registry, locals, c.Options)

	var out []finding.Finding
	out = append(out, CheckDeclarations(g, locals)...)
	out = append(out, CheckCycles(g, locals)...)
	for _, s := range shapes {
		switch s := s.(type) {
		case decl.TemplateRegistration:
			out = append(out, ValidateTemplate(g, s.Name, decl.ExtractTemplate(s, r))...)
		case decl.QueryDeclaration:
			out = append(out, ValidateQuery(g, decl.ExtractFilter(s, r))...)
		}
	}
	out = append(out, ValidateSequential(g, u.Root, methods, r)...)
	return out
}

// CheckSeeds returns the findings caused by seed constraints that no unit
// reports. Call it once per program, not per unit.
func (c *Checker) CheckSeeds() []finding.Finding {
	if len(c.Options.Seeds) == 0 {
		return nil
	}
	path := c.SeedPath
	if path == "" {
		path = DefaultSeedPath
	}
	return CheckSeeds(constraint.New(c.Registry, nil, c.Options), path)
}
