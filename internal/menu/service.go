package menu

import (
	"context"

	"kantin-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]MenuItem, error)
	Get(ctx context.Context, id string) (*MenuItem, error)
	Create(ctx context.Context, in NewMenuItem) (*MenuItem, error)
	Update(ctx context.Context, id string, in UpdateMenuItem) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]MenuItem, error) {
	log := logger.Op(ctx, "service", "ListMenuItems")

	items, err := s.repo.List(ctx)
	if err != nil {
		log.Error("failed to list menu items", zap.Error(err))
		return nil, err
	}

	log.Debug("ListMenuItems success", zap.Int("count", len(items)))
	return items, nil
}

func (s *service) Get(ctx context.Context, id string) (*MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, in NewMenuItem) (*MenuItem, error) {
	log := logger.Op(ctx, "service", "CreateMenuItem", zap.String("name", in.Name))
	log.Info("CreateMenuItem started")

	if err := ValidateNew(in); err != nil {
		log.Warn("CreateMenuItem validation failed", zap.Error(err))
		return nil, err
	}

	item, err := s.repo.Create(ctx, in)
	if err != nil {
		log.Error("failed to create menu item", zap.Error(err))
		return nil, err
	}

	log.Info("CreateMenuItem success", zap.String("menu_item_id", item.ID))
	return item, nil
}

func (s *service) Update(ctx context.Context, id string, in UpdateMenuItem) error {
	log := logger.Op(ctx, "service", "UpdateMenuItem", zap.String("menu_item_id", id))
	log.Info("UpdateMenuItem started")

	if err := ValidateUpdate(in); err != nil {
		log.Warn("UpdateMenuItem validation failed", zap.Error(err))
		return err
	}

	if err := s.repo.Update(ctx, id, in); err != nil {
		log.Error("failed to update menu item", zap.Error(err))
		return err
	}

	log.Info("UpdateMenuItem success")
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := logger.Op(ctx, "service", "DeleteMenuItem", zap.String("menu_item_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("failed to delete menu item", zap.Error(err))
		return err
	}

	log.Info("DeleteMenuItem success")
	return nil
}
