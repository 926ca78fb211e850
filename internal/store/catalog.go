package store

import (
	"context"

	"kantin-be/internal/category"
	"kantin-be/internal/gateway"
	"kantin-be/internal/logger"
	"kantin-be/internal/menu"
	"kantin-be/internal/settings"

	"go.uber.org/zap"
)

// Catalog writes go to the backend first. Local state is only ever replaced
// by a full reload after the write succeeded.

func (s *Store) AddMenuItem(ctx context.Context, in menu.NewMenuItem) (string, error) {
	if err := menu.ValidateNew(in); err != nil {
		return "", err
	}

	id, err := s.gw.CreateMenuItem(ctx, in)
	if err != nil {
		return "", s.writeFailed(ctx, "add menu item", err)
	}

	s.afterWrite(ctx, "add menu item")
	return id, nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, id string, in menu.UpdateMenuItem) error {
	if err := menu.ValidateUpdate(in); err != nil {
		return err
	}

	if err := s.gw.UpdateMenuItem(ctx, id, in); err != nil {
		return s.writeFailed(ctx, "update menu item", err)
	}

	s.afterWrite(ctx, "update menu item")
	return nil
}

// ToggleAvailability flips IsAvailable based on the loaded copy of the item.
func (s *Store) ToggleAvailability(ctx context.Context, id string) error {
	item, ok := s.MenuItem(id)
	if !ok {
		return menu.ErrMenuItemNotFound
	}

	next := !item.IsAvailable
	return s.UpdateMenuItem(ctx, id, menu.UpdateMenuItem{IsAvailable: &next})
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	if err := s.gw.DeleteMenuItem(ctx, id); err != nil {
		return s.writeFailed(ctx, "delete menu item", err)
	}

	s.afterWrite(ctx, "delete menu item")
	return nil
}

func (s *Store) AddCategory(ctx context.Context, in category.NewCategory) (string, error) {
	if err := category.ValidateNew(in); err != nil {
		return "", err
	}

	id, err := s.gw.CreateCategory(ctx, in)
	if err != nil {
		return "", s.writeFailed(ctx, "add category", err)
	}

	s.afterWrite(ctx, "add category")
	return id, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, in category.UpdateCategory) error {
	if err := category.ValidateUpdate(in); err != nil {
		return err
	}

	if err := s.gw.UpdateCategory(ctx, id, in); err != nil {
		return s.writeFailed(ctx, "update category", err)
	}

	s.afterWrite(ctx, "update category")
	return nil
}

// DeleteCategory refuses without calling the backend while any loaded menu
// item still points at the category.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if n := s.CategoryItemCount(id); n > 0 {
		logger.Op(ctx, "store", "DeleteCategory",
			zap.String("category_id", id),
			zap.Int("item_count", n),
		).Warn("category still in use")
		return category.ErrCategoryInUse
	}

	if err := s.gw.DeleteCategory(ctx, id); err != nil {
		return s.writeFailed(ctx, "delete category", err)
	}

	s.afterWrite(ctx, "delete category")
	return nil
}

// UpdateSettings saves the full settings document.
func (s *Store) UpdateSettings(ctx context.Context, in settings.Settings) error {
	if err := settings.Validate(in); err != nil {
		return err
	}

	if err := s.gw.PutSettings(ctx, in); err != nil {
		return s.writeFailed(ctx, "update settings", err)
	}

	s.afterWrite(ctx, "update settings")
	return nil
}

func (s *Store) writeFailed(ctx context.Context, op string, err error) error {
	s.metrics.WriteFailures.Inc()
	logger.Op(ctx, "store", op).Error("remote write failed", zap.Error(err))
	return &gateway.WriteError{Op: op, Err: err}
}

// afterWrite reloads everything. The write itself already succeeded, so a
// failed reload is not the caller's error.
func (s *Store) afterWrite(ctx context.Context, op string) {
	s.metrics.Writes.Inc()
	bestEffort(ctx, "reload after "+op, s.Refresh(ctx))
}
