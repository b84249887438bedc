package normalizer

import (
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
)

// DateKeyLayout is the calendar-date bucket key format.
const DateKeyLayout = "2006-01-02"

// GroupByEmployee buckets punches by external employee ID. Order within a bucket is not
// meaningful; downstream stages sort.
func GroupByEmployee(punches []punch.Canonical) map[string][]punch.Canonical {
	groups := make(map[string][]punch.Canonical)
	for _, p := range punches {
		groups[p.ExternalID] = append(groups[p.ExternalID], p)
	}
	return groups
}

// GroupByDate buckets one employee's punches by the date component of the timestamp.
func GroupByDate(punches []punch.Canonical) map[string][]punch.Canonical {
	groups := make(map[string][]punch.Canonical)
	for _, p := range punches {
		key := p.Timestamp.Format(DateKeyLayout)
		groups[key] = append(groups[key], p)
	}
	return groups
}

// DepartmentLookup maps external employee ID to department, built from a
// "without errors" export.
type DepartmentLookup map[string]string

// BuildDepartmentLookup collects the last non-empty department seen per employee.
func BuildDepartmentLookup(punches []punch.Canonical) DepartmentLookup {
	lookup := make(DepartmentLookup)
	for _, p := range punches {
		if p.Department != nil && *p.Department != "" {
			lookup[p.ExternalID] = *p.Department
		}
	}
	return lookup
}

// MergeDepartments fills missing departments from the lookup. A punch that already has
// a department keeps it. The input slice is not modified.
func MergeDepartments(punches []punch.Canonical, lookup DepartmentLookup) []punch.Canonical {
	out := make([]punch.Canonical, len(punches))
	for i, p := range punches {
		if p.Department == nil || *p.Department == "" {
			if dept, ok := lookup[p.ExternalID]; ok {
				d := dept
				p.Department = &d
			}
		}
		out[i] = p
	}
	return out
}
