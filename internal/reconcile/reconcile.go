package reconcile

import (
	"entity-weaver/internal/common"
	"entity-weaver/internal/descriptor"
	"entity-weaver/internal/diagnostic"
	"entity-weaver/internal/scan"
)

// Options controls reconciliation.
type Options struct {
	// WarnUndeclared reports discovered classes missing from the descriptor.
	// It is off for a descriptor created in the same run, which declares
	// nothing yet.
	WarnUndeclared bool
	// Location names the descriptor in diagnostics.
	Location string
}

// Result is the outcome of a reconciliation.
type Result struct {
	// ToAdd are the discovered classes that were not declared, sorted.
	ToAdd []string
	// Undeclared is the sorted list reported in the warning; empty when no
	// warning was raised.
	Undeclared []string
	// Added is the number of entries written into the descriptor.
	Added       int
	Diagnostics diagnostic.Diagnostics
}

// Reconcile adds every discovered class that d does not declare yet to d and
// reports class entries d declares more than once.
func Reconcile(discovered scan.ClassSet, d *descriptor.Descriptor, opts Options) Result {
	var res Result

	if dups := d.Duplicates(); len(dups) > 0 {
		res.Diagnostics.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticWarning,
			Code:     diagnostic.CodeDuplicateClass,
			Message:  "the following classes are declared more than once in the same persistence unit",
			Location: opts.Location,
			Names:    dups,
		})
	}

	declared := make(map[string]struct{})
	for _, n := range d.DeclaredNames() {
		declared[n] = struct{}{}
	}

	res.ToAdd = common.Missing(discovered, declared)
	if len(res.ToAdd) == 0 {
		return res
	}

	if opts.WarnUndeclared {
		res.Undeclared = res.ToAdd
		res.Diagnostics.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticWarning,
			Code:     diagnostic.CodeUndeclaredClasses,
			Message:  "the following classes are not declared even though they are available on the class path",
			Location: opts.Location,
			Names:    res.Undeclared,
		})
	}

	res.Added = d.AddNames(res.ToAdd)

	return res
}
