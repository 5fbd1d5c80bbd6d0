package report

import (
	"fmt"

	"github.com/matzehuels/compcheck/pkg/finding"
)

// Message returns the human-readable text of f.
func Message(f finding.Finding) string {
	d := f.Data
	switch f.Kind {
	case finding.SelfReference:
		if d[finding.KeyRelation] == finding.RelationConflict {
			return fmt.Sprintf("%s declares a conflict with itself", d[finding.KeyComponent])
		}
		return fmt.Sprintf("%s declares a dependency on itself", d[finding.KeyComponent])

	case finding.Contradiction:
		return fmt.Sprintf("%s both depends on and conflicts with %s", d[finding.KeyComponent], d[finding.KeyTarget])

	case finding.DuplicateEntry:
		if q, ok := d[finding.KeyQuery]; ok {
			return fmt.Sprintf("%s is listed more than once in %s of query %s", d[finding.KeyTarget], d[finding.KeyArray], quoted(q))
		}
		return fmt.Sprintf("%s is listed more than once in the %s of %s", d[finding.KeyTarget], d[finding.KeyArray], d[finding.KeyComponent])

	case finding.Cycle:
		return fmt.Sprintf("dependency cycle: %s", d[finding.KeyCycle])

	case finding.MissingDependency:
		msg := fmt.Sprintf("%s is added before its dependency %s", d[finding.KeyComponent], d[finding.KeyDependency])
		if t, ok := d[finding.KeyTemplate]; ok {
			msg += " in template " + quoted(t)
		}
		return msg

	case finding.ConflictingComponent:
		msg := fmt.Sprintf("%s is added while conflicting component %s is present", d[finding.KeyComponent], d[finding.KeyConflict])
		if t, ok := d[finding.KeyTemplate]; ok {
			msg += " in template " + quoted(t)
		}
		return msg

	case finding.UnsatisfiableQuery:
		q := quoted(d[finding.KeyQuery])
		switch d[finding.KeyReason] {
		case finding.ReasonRequiredAndExcluded:
			return fmt.Sprintf("query %s requires and excludes %s, so it can never match", q, d[finding.KeyComponent])
		case finding.ReasonTagContradiction:
			return fmt.Sprintf("query %s requires and excludes tag %s, so it can never match", q, d[finding.KeyTag])
		case finding.ReasonConflictingRequired:
			return fmt.Sprintf("query %s requires mutually exclusive components %s and %s", q, d[finding.KeyComponent], d[finding.KeyOther])
		}
		return fmt.Sprintf("query %s can never match", q)
	}
	return string(f.Kind)
}

func quoted(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return fmt.Sprintf("%q", name)
}
