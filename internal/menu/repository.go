package menu

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kantin-be/internal/db"
	"kantin-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context) ([]MenuItem, error)
	GetByID(ctx context.Context, id string) (*MenuItem, error)
	Create(ctx context.Context, in NewMenuItem) (*MenuItem, error)
	Update(ctx context.Context, id string, in UpdateMenuItem) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectMenuItem = `
	SELECT id, name, description, price, category_id, image, is_available, created_at, updated_at
	FROM menu_items
`

func scanMenuItem(row interface{ Scan(...any) error }) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(
		&m.ID, &m.Name, &m.Description, &m.Price, &m.CategoryID,
		&m.Image, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *repository) List(ctx context.Context) ([]MenuItem, error) {
	log := logger.Op(ctx, "repository", "ListMenuItems")

	rows, err := r.db.QueryContext(ctx, selectMenuItem+" ORDER BY created_at DESC")
	if err != nil {
		log.Error("DB query failed", zap.Error(err))
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := []MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		log.Error("Rows iteration failed", zap.Error(err))
		return nil, err
	}

	return items, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*MenuItem, error) {
	m, err := scanMenuItem(r.db.QueryRowContext(ctx, selectMenuItem+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		logger.Op(ctx, "repository", "GetMenuItem", zap.String("menu_item_id", id)).
			Error("DB query failed", zap.Error(err))
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return &m, nil
}

func (r *repository) Create(ctx context.Context, in NewMenuItem) (*MenuItem, error) {
	m := MenuItem{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Image:       in.Image,
		IsAvailable: in.IsAvailable,
	}

	log := logger.Op(ctx, "repository", "CreateMenuItem", zap.String("menu_item_id", m.ID))

	query := `
		INSERT INTO menu_items (id, name, description, price, category_id, image, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.Name, m.Description, m.Price, m.CategoryID, m.Image, m.IsAvailable,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			log.Warn("unknown category", zap.String("category_id", m.CategoryID))
			return nil, ErrUnknownCategory
		}
		log.Error("CreateMenuItem DB query failed", zap.Error(err))
		return nil, fmt.Errorf("create menu item: %w", err)
	}

	return &m, nil
}

func (r *repository) Update(ctx context.Context, id string, in UpdateMenuItem) error {
	log := logger.Op(ctx, "repository", "UpdateMenuItem", zap.String("menu_item_id", id))

	query := `
		UPDATE menu_items
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			price = COALESCE($4, price),
			category_id = COALESCE($5, category_id),
			image = COALESCE($6, image),
			is_available = COALESCE($7, is_available),
			updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		id, in.Name, in.Description, in.Price, in.CategoryID, in.Image, in.IsAvailable,
	)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrUnknownCategory
		}
		log.Error("UpdateMenuItem DB exec failed", zap.Error(err))
		return fmt.Errorf("update menu item: %w", err)
	}

	return expectOneRow(res)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		logger.Op(ctx, "repository", "DeleteMenuItem", zap.String("menu_item_id", id)).
			Error("DeleteMenuItem DB exec failed", zap.Error(err))
		return fmt.Errorf("delete menu item: %w", err)
	}

	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}
