package store

import (
	"kantin-be/internal/category"
	"kantin-be/internal/menu"
)

type CategoryCount struct {
	Category category.Category `json:"category"`
	Count    int               `json:"count"`
}

type DashboardStats struct {
	TotalItems       int             `json:"totalItems"`
	AvailableItems   int             `json:"availableItems"`
	UnavailableItems int             `json:"unavailableItems"`
	TotalCategories  int             `json:"totalCategories"`
	AveragePrice     int64           `json:"averagePrice"`
	ItemsPerCategory []CategoryCount `json:"itemsPerCategory"`
	RecentlyUpdated  []menu.MenuItem `json:"recentlyUpdated"`
}

const recentItems = 5

// Dashboard summarizes the loaded catalog. AveragePrice is rounded down.
func (s *Store) Dashboard() DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := DashboardStats{
		TotalItems:       len(s.menuItems),
		TotalCategories:  len(s.categories),
		ItemsPerCategory: make([]CategoryCount, 0, len(s.categories)),
		RecentlyUpdated:  menu.RecentlyUpdated(s.menuItems, recentItems),
	}

	var sum int64
	for _, it := range s.menuItems {
		sum += it.Price
		if it.IsAvailable {
			stats.AvailableItems++
		}
	}
	stats.UnavailableItems = stats.TotalItems - stats.AvailableItems
	if stats.TotalItems > 0 {
		stats.AveragePrice = sum / int64(stats.TotalItems)
	}

	for _, c := range s.categories {
		stats.ItemsPerCategory = append(stats.ItemsPerCategory, CategoryCount{
			Category: c,
			Count:    menu.CountByCategory(s.menuItems, c.ID),
		})
	}
	return stats
}
