package category

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
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, in NewCategory) (*Category, error)
	Update(ctx context.Context, id string, in UpdateCategory) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	log := logger.Op(ctx, "repository", "ListCategories")

	// ---------- ORDER ----------
	// rank first, name breaks ties so equal ranks list deterministically
	query := `
		SELECT c.id, c.name, c.description, c.sort_order
		FROM categories c
		ORDER BY c.sort_order ASC, c.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("DB query failed ListCategories", zap.Error(err))
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Order); err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		log.Error("Rows iteration failed", zap.Error(err))
		return nil, err
	}

	return categories, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, sort_order FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

func (r *repository) Create(ctx context.Context, in NewCategory) (*Category, error) {
	c := Category{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Order:       in.Order,
	}

	log := logger.Op(ctx, "repository", "CreateCategory",
		zap.String("category_id", c.ID),
		zap.String("category_name", c.Name),
	)

	query := `
		INSERT INTO categories (id, name, description, sort_order)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.Order); err != nil {
		log.Error("CreateCategory DB exec failed", zap.Error(err))
		return nil, fmt.Errorf("add category failed: %w", err)
	}

	return &c, nil
}

func (r *repository) Update(ctx context.Context, id string, in UpdateCategory) error {
	query := `
		UPDATE categories
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			sort_order = COALESCE($4, sort_order)
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, in.Name, in.Description, in.Order)
	if err != nil {
		logger.Op(ctx, "repository", "UpdateCategory", zap.String("category_id", id)).
			Error("UpdateCategory DB exec failed", zap.Error(err))
		return fmt.Errorf("update category: %w", err)
	}

	return expectOneRow(res)
}

// Delete fails with ErrCategoryInUse while menu items still reference the category.
func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrCategoryInUse
		}
		logger.Op(ctx, "repository", "DeleteCategory", zap.String("category_id", id)).
			Error("DeleteCategory DB exec failed", zap.Error(err))
		return fmt.Errorf("delete category: %w", err)
	}

	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
