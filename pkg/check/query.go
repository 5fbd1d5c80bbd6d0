package check

import (
	"github.com/matzehuels/compcheck/pkg/component"
	"github.com/matzehuels/compcheck/pkg/constraint"
	"github.com/matzehuels/compcheck/pkg/decl"
	"github.com/matzehuels/compcheck/pkg/finding"
)

// ValidateQuery checks an unordered filter. Order within the arrays is
// irrelevant; only overlaps, repeats and conflicts among required components
// are reported.
func ValidateQuery(g *constraint.Graph, f decl.Filter) []finding.Finding {
	var out []finding.Finding

	out = append(out, overlaps(f.All, f.None, finding.KeyComponent, finding.ReasonRequiredAndExcluded, f.Name)...)
	out = append(out, overlaps(f.Tags, f.WithoutTags, finding.KeyTag, finding.ReasonTagContradiction, f.Name)...)

	arrays := []struct {
		name    string
		entries []decl.Entry
	}{
		{"all", f.All},
		{"none", f.None},
		{"tags", f.Tags},
		{"withoutTags", f.WithoutTags},
	}
	for _, a := range arrays {
		for _, dup := range constraint.Duplicates(decl.Names(a.entries)) {
			out = append(out, finding.New(finding.DuplicateEntry, entryNode(a.entries, dup, 2, f.Site),
				finding.KeyTarget, dup,
				finding.KeyArray, a.name,
				finding.KeyQuery, f.Name))
		}
	}

	var required []decl.Entry
	seen := component.Set{}
	for _, e := range f.All {
		if !seen.Has(e.Name) {
			seen.Add(e.Name)
			required = append(required, e)
		}
	}
	for j, b := range required {
		for _, a := range required[:j] {
			if g.Conflicting(a.Name, b.Name) {
				out = append(out, finding.New(finding.UnsatisfiableQuery, b.Node,
					finding.KeyReason, finding.ReasonConflictingRequired,
					finding.KeyComponent, a.Name,
					finding.KeyOther, b.Name,
					finding.KeyQuery, f.Name))
			}
		}
	}
	return out
}

// overlaps reports each name present in both include and exclude once, at
// its first position in exclude.
func overlaps(include, exclude []decl.Entry, key, reason, query string) []finding.Finding {
	in := component.NewSet(decl.Names(include)...)
	done := component.Set{}
	var out []finding.Finding
	for _, e := range exclude {
		if !in.Has(e.Name) || done.Has(e.Name) {
			continue
		}
		done.Add(e.Name)
		out = append(out, finding.New(finding.UnsatisfiableQuery, e.Node,
			finding.KeyReason, reason,
			key, e.Name,
			finding.KeyQuery, query))
	}
	return out
}
