package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kantin-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Put(ctx context.Context, s Settings) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.db.QueryRowContext(ctx, `
		SELECT restaurant_name, whatsapp_number, whatsapp_message,
		       address, phone, email, weekday_hours, weekend_hours
		FROM settings WHERE id = $1
	`, SingletonID).Scan(
		&s.RestaurantName,
		&s.WhatsAppNumber,
		&s.WhatsAppMessage,
		&s.Address,
		&s.Phone,
		&s.Email,
		&s.OpeningHours.Weekdays,
		&s.OpeningHours.Weekends,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Default(), nil
		}
		logger.Op(ctx, "repository", "GetSettings").Error("DB query failed", zap.Error(err))
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

// Put upserts the singleton row. Empty fields keep whatever is already stored.
func (r *repository) Put(ctx context.Context, s Settings) error {
	query := `
		INSERT INTO settings (
			id, restaurant_name, whatsapp_number, whatsapp_message,
			address, phone, email, weekday_hours, weekend_hours, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (id) DO UPDATE SET
			restaurant_name  = COALESCE(NULLIF(EXCLUDED.restaurant_name, ''), settings.restaurant_name),
			whatsapp_number  = COALESCE(NULLIF(EXCLUDED.whatsapp_number, ''), settings.whatsapp_number),
			whatsapp_message = COALESCE(NULLIF(EXCLUDED.whatsapp_message, ''), settings.whatsapp_message),
			address          = COALESCE(NULLIF(EXCLUDED.address, ''), settings.address),
			phone            = COALESCE(NULLIF(EXCLUDED.phone, ''), settings.phone),
			email            = COALESCE(NULLIF(EXCLUDED.email, ''), settings.email),
			weekday_hours    = COALESCE(NULLIF(EXCLUDED.weekday_hours, ''), settings.weekday_hours),
			weekend_hours    = COALESCE(NULLIF(EXCLUDED.weekend_hours, ''), settings.weekend_hours),
			updated_at       = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		SingletonID,
		s.RestaurantName,
		s.WhatsAppNumber,
		s.WhatsAppMessage,
		s.Address,
		s.Phone,
		s.Email,
		s.OpeningHours.Weekdays,
		s.OpeningHours.Weekends,
	)
	if err != nil {
		logger.Op(ctx, "repository", "PutSettings").Error("DB exec failed", zap.Error(err))
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}
