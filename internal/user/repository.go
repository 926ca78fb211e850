package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"kantin-be/internal/db"
	"kantin-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, email, displayName, passwordHash string) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindByID(ctx context.Context, id string) (*Admin, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, email, displayName, passwordHash string) (*Admin, error) {
	log := logger.Op(ctx, "repository", "CreateAdmin", zap.String("email", email))

	a := Admin{
		AdminUser: AdminUser{
			ID:          uuid.NewString(),
			Email:       normalizeEmail(email),
			DisplayName: displayName,
		},
		PasswordHash: passwordHash,
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO admins (id, email, display_name, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		a.ID, a.Email, a.DisplayName, a.PasswordHash,
	).Scan(&a.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		log.Error("db: failed to insert admin", zap.Error(err))
		return nil, fmt.Errorf("create admin: %w", err)
	}

	return &a, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.findOne(ctx, "email", normalizeEmail(email))
}

func (r *repository) FindByID(ctx context.Context, id string) (*Admin, error) {
	return r.findOne(ctx, "id", id)
}

func (r *repository) findOne(ctx context.Context, column, value string) (*Admin, error) {
	var a Admin
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, display_name, password_hash, created_at FROM admins WHERE "+column+" = $1",
		value,
	).Scan(&a.ID, &a.Email, &a.DisplayName, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &a, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
