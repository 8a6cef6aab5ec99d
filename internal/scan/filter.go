package scan

import (
	"slices"
	"strings"
)

// PackageFilter restricts a scan to classes inside a set of packages.
// The zero value matches every class.
type PackageFilter struct {
	packages []string
}

// NewPackageFilter builds a filter from package names. Blank names are
// dropped, duplicates collapse and the first-seen order is kept. A trailing
// ".*" or "." is tolerated.
func NewPackageFilter(packages ...string) PackageFilter {
	var f PackageFilter

	for _, p := range packages {
		p = strings.TrimSpace(p)
		p = strings.TrimSuffix(p, ".*")
		p = strings.TrimSuffix(p, ".")

		if p == "" || slices.Contains(f.packages, p) {
			continue
		}

		f.packages = append(f.packages, p)
	}

	return f
}

// IsEmpty reports whether the filter is unrestricted.
func (f PackageFilter) IsEmpty() bool {
	return len(f.packages) == 0
}

// Packages returns the package names in configured order.
func (f PackageFilter) Packages() []string {
	return slices.Clone(f.packages)
}

// Matches reports whether the dotted class name lies inside one of the
// packages or their sub-packages.
func (f PackageFilter) Matches(className string) bool {
	if f.IsEmpty() {
		return true
	}

	for _, p := range f.packages {
		if strings.HasPrefix(className, p) && len(className) > len(p) && className[len(p)] == '.' {
			return true
		}
	}

	return false
}

// String joins the package names with ", ".
func (f PackageFilter) String() string {
	return strings.Join(f.packages, ", ")
}
