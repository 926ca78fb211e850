package settings

import (
	"context"

	"kantin-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, s Settings) (Settings, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context) (Settings, error) {
	return s.repo.Get(ctx)
}

// Update merges s into the stored row and returns the result.
func (s *service) Update(ctx context.Context, in Settings) (Settings, error) {
	log := logger.Op(ctx, "service", "UpdateSettings")
	log.Info("UpdateSettings started")

	// partial payloads are allowed, so only the shape of what was sent is checked
	if err := ValidateNumber(in.WhatsAppNumber); err != nil {
		log.Warn("UpdateSettings validation failed", zap.Error(err))
		return Settings{}, err
	}

	if err := s.repo.Put(ctx, in); err != nil {
		log.Error("failed to store settings", zap.Error(err))
		return Settings{}, err
	}

	out, err := s.repo.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	log.Info("UpdateSettings success")
	return out, nil
}
