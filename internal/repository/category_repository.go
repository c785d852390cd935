package repository

import (
	"context"
	"database/sql"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
)

// CategoryRepo provides CRUD operations for car categories.  A
// category is the pair (car_brand, type), unique together.
type CategoryRepo struct{ db *sql.DB }

// NewCategoryRepo returns a new CategoryRepo bound to the given database.
func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// Create inserts a category and returns its ID.  ErrConflict is
// returned when the (brand, type) pair already exists.
func (r *CategoryRepo) Create(ctx context.Context, brand, typ string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO car_categories (car_brand, type) VALUES (?,?)", brand, typ)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single category.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.CarCategory, error) {
	var cat model.CarCategory
	err := r.db.QueryRowContext(ctx,
		"SELECT id, car_brand, type, created_at, updated_at FROM car_categories WHERE id=?",
		id).Scan(&cat.ID, &cat.CarBrand, &cat.Type, &cat.CreatedAt, &cat.UpdatedAt)
	return cat, err
}

// ListAll returns every category ordered by brand then type.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]model.CarCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, car_brand, type, created_at, updated_at FROM car_categories ORDER BY car_brand, type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cats := make([]model.CarCategory, 0)
	for rows.Next() {
		var cat model.CarCategory
		if err := rows.Scan(&cat.ID, &cat.CarBrand, &cat.Type, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

// Update rewrites the brand/type of a category.  sql.ErrNoRows is
// returned when the category does not exist, ErrConflict when the
// new pair collides with another category.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, brand, typ string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE car_categories SET car_brand=?, type=? WHERE id=?", brand, typ, id)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a category.  ErrConflict is returned when cars still
// reference it (foreign key restriction).
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cars WHERE category_id=?", id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM car_categories WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
