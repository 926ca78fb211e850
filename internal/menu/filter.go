package menu

import (
	"sort"
	"strings"
)

type FilterOptions struct {
	// CategoryID limits results to one category; empty means all.
	CategoryID    string
	Search        string
	OnlyAvailable bool
}

// Filter keeps the input order.
func Filter(items []MenuItem, opts FilterOptions) []MenuItem {
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if opts.OnlyAvailable && !item.IsAvailable {
			continue
		}
		if opts.CategoryID != "" && item.CategoryID != opts.CategoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.Description), search) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// CountByCategory counts items referencing categoryID.
func CountByCategory(items []MenuItem, categoryID string) int {
	n := 0
	for _, item := range items {
		if item.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// RecentlyUpdated returns up to n items, newest UpdatedAt first.
func RecentlyUpdated(items []MenuItem, n int) []MenuItem {
	sorted := make([]MenuItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
