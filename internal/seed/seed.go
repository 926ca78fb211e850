// Package seed fills an empty catalog with the starter menu.
package seed

import (
	"context"
	"fmt"
	"sync"

	"kantin-be/internal/category"
	"kantin-be/internal/logger"
	"kantin-be/internal/menu"
	"kantin-be/internal/settings"

	"go.uber.org/zap"
)

type Seeder struct {
	categories category.Repository
	menu       menu.Repository
	settings   settings.Repository

	mu sync.Mutex
}

func NewSeeder(c category.Repository, m menu.Repository, s settings.Repository) *Seeder {
	return &Seeder{categories: c, menu: m, settings: s}
}

// SeedIfEmpty writes the starter data only when there are no categories.
// It reports whether anything was written.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.Op(ctx, "seed", "SeedIfEmpty")

	n, err := s.categories.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		log.Info("data already exists, skipping seed", zap.Int64("categories", n))
		return false, nil
	}

	log.Info("SeedIfEmpty started")

	ids := make(map[string]string, len(categories))
	for _, c := range categories {
		created, err := s.categories.Create(ctx, c)
		if err != nil {
			return false, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		ids[c.Name] = created.ID
	}

	for _, si := range menuItems {
		in := si.item
		in.CategoryID = ids[si.category]
		if _, err := s.menu.Create(ctx, in); err != nil {
			return false, fmt.Errorf("seed menu item %q: %w", in.Name, err)
		}
	}

	if err := s.settings.Put(ctx, initialSettings()); err != nil {
		return false, fmt.Errorf("seed settings: %w", err)
	}

	log.Info("SeedIfEmpty success",
		zap.Int("categories", len(categories)),
		zap.Int("menu_items", len(menuItems)),
	)
	return true, nil
}
