package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mtarnawa/finbook/internal/database"
	"github.com/mtarnawa/finbook/internal/models"
)

type CategoryRepository struct {
	db *database.DB
}

func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO category (user_id, category_name, usage_count) VALUES ($1, $2, $3)
		 RETURNING category_id`,
		category.UserID, category.CategoryName, category.UsageCount,
	).Scan(&category.CategoryID)
}

func (r *CategoryRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Category, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT category_id, user_id, category_name, usage_count
		 FROM category WHERE user_id = $1 ORDER BY usage_count DESC, category_name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		cat := &models.Category{}
		if err := rows.Scan(&cat.CategoryID, &cat.UserID, &cat.CategoryName, &cat.UsageCount); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetByID(ctx context.Context, categoryID int, userID int64) (*models.Category, error) {
	cat := &models.Category{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT category_id, user_id, category_name, usage_count
		 FROM category WHERE category_id = $1 AND user_id = $2`,
		categoryID, userID,
	).Scan(&cat.CategoryID, &cat.UserID, &cat.CategoryName, &cat.UsageCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", categoryID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE category SET category_name = $1 WHERE category_id = $2 AND user_id = $3`,
		category.CategoryName, category.CategoryID, category.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", category.CategoryID, models.ErrNotFound)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID int, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM category WHERE category_id = $1 AND user_id = $2`,
		categoryID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", categoryID, models.ErrNotFound)
	}
	return nil
}

func (r *CategoryRepository) IncrementUsage(ctx context.Context, categoryID int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE category SET usage_count = usage_count + 1 WHERE category_id = $1`,
		categoryID,
	)
	return err
}
