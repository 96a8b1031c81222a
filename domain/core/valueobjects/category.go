package valueobjects

import (
	"sort"
	"strings"
)

// AllCategories is the filter value meaning "no category restriction".
const AllCategories = "all"

// NormalizeCategory returns the canonical form used both in storage and in filters.
func NormalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CategoryFilter restricts search results to one category.
type CategoryFilter struct {
	value string
}

// NewCategoryFilter builds a filter from the raw `cat` parameter.
// Empty input and the AllCategories sentinel produce an inactive filter.
func NewCategoryFilter(raw string) CategoryFilter {
	normalized := NormalizeCategory(raw)
	if normalized == AllCategories {
		return CategoryFilter{}
	}
	return CategoryFilter{value: normalized}
}

// Active reports whether the filter restricts anything
func (f CategoryFilter) Active() bool {
	return f.value != ""
}

// Value returns the normalized category name
func (f CategoryFilter) Value() string {
	return f.value
}

// Matches reports whether a stored category satisfies the filter
func (f CategoryFilter) Matches(category string) bool {
	return !f.Active() || NormalizeCategory(category) == f.value
}

// CategorySet is a deduplicated, sorted collection of category names.
type CategorySet struct {
	names []string
}

// NewCategorySet drops blanks and duplicates. Names are kept as given
// apart from surrounding whitespace.
func NewCategorySet(names []string) CategorySet {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return CategorySet{names: out}
}

// Names returns a copy of the names in ascending order
func (s CategorySet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of categories
func (s CategorySet) Len() int {
	return len(s.names)
}

// Add returns a new set that also contains name
func (s CategorySet) Add(names ...string) CategorySet {
	return NewCategorySet(append(s.Names(), names...))
}
