package category

import (
	"context"

	"kantin-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, in NewCategory) (*Category, error)
	Update(ctx context.Context, id string, in UpdateCategory) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Category, error) {
	log := logger.Op(ctx, "service", "ListCategories")

	categories, err := s.repo.List(ctx)
	if err != nil {
		log.Error("failed to get categories", zap.Error(err))
		return nil, err
	}

	log.Debug("ListCategories success", zap.Int("count", len(categories)))
	return categories, nil
}

func (s *service) Create(ctx context.Context, in NewCategory) (*Category, error) {
	log := logger.Op(ctx, "service", "CreateCategory", zap.String("name", in.Name))
	log.Info("CreateCategory started")

	if err := ValidateNew(in); err != nil {
		log.Warn("CreateCategory validation failed", zap.Error(err))
		return nil, err
	}

	c, err := s.repo.Create(ctx, in)
	if err != nil {
		log.Error("failed to add category", zap.Error(err))
		return nil, err
	}

	log.Info("CreateCategory success", zap.String("category_id", c.ID))
	return c, nil
}

func (s *service) Update(ctx context.Context, id string, in UpdateCategory) error {
	log := logger.Op(ctx, "service", "UpdateCategory", zap.String("category_id", id))

	if err := ValidateUpdate(in); err != nil {
		log.Warn("UpdateCategory validation failed", zap.Error(err))
		return err
	}

	if err := s.repo.Update(ctx, id, in); err != nil {
		log.Error("failed to update category", zap.Error(err))
		return err
	}

	log.Info("UpdateCategory success")
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := logger.Op(ctx, "service", "DeleteCategory", zap.String("category_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Warn("failed to delete category", zap.Error(err))
		return err
	}

	log.Info("DeleteCategory success")
	return nil
}
