package repository

import (
	"context"
	"database/sql"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
)

const carColumns = `id, category_id, slug, name, transmission, fuel, color,
	plate_number, capacity, registration_number, price, image, status,
	created_at, updated_at`

// CarRepo provides CRUD operations for cars plus the transactional
// helpers the rental lifecycle needs.  Status transitions always go
// through the ...Tx methods so that they run under the row lock taken
// by GetByNameForUpdateTx.
type CarRepo struct{ db *sql.DB }

// NewCarRepo returns a new CarRepo bound to the given database.
func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{db: db} }

func scanCar(row interface{ Scan(...any) error }) (model.Car, error) {
	var c model.Car
	err := row.Scan(&c.ID, &c.CategoryID, &c.Slug, &c.Name, &c.Transmission,
		&c.Fuel, &c.Color, &c.PlateNumber, &c.Capacity, &c.RegistrationNumber,
		&c.Price, &c.Image, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts a car and returns its ID.  ErrConflict is returned
// when the plate number, registration number or slug collides with an
// existing car.
func (r *CarRepo) Create(ctx context.Context, c model.Car) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cars (category_id, slug, name, transmission, fuel, color,
		 plate_number, capacity, registration_number, price, image, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.CategoryID, c.Slug, c.Name, c.Transmission, c.Fuel, c.Color,
		c.PlateNumber, c.Capacity, c.RegistrationNumber, c.Price, c.Image, c.Status)
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

// GetByID fetches a single car.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (model.Car, error) {
	return scanCar(r.db.QueryRowContext(ctx,
		`SELECT `+carColumns+` FROM cars WHERE id=?`, id))
}

// GetByNameForUpdateTx resolves a car by display name inside a
// transaction, taking a row lock so that concurrent bookings of the
// same car serialize on it.  When two requests race, the second one
// blocks here until the first commits and then observes the updated
// status.
func (r *CarRepo) GetByNameForUpdateTx(ctx context.Context, tx *sql.Tx, name string) (model.Car, error) {
	return scanCar(tx.QueryRowContext(ctx,
		`SELECT `+carColumns+` FROM cars WHERE name=? LIMIT 1 FOR UPDATE`, name))
}

// UpdateStatusTx sets the availability status of a car within a
// transaction.  Callers must hold the row lock from one of the
// ...ForUpdateTx methods.
func (r *CarRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, "UPDATE cars SET status=? WHERE id=?", status, id)
	return err
}

// ListAll returns all cars ordered by name.
func (r *CarRepo) ListAll(ctx context.Context) ([]model.Car, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+carColumns+` FROM cars ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cars := make([]model.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// Update rewrites the mutable fields of a car.  sql.ErrNoRows is
// returned when the car does not exist, ErrConflict on duplicate
// plate or registration numbers.
func (r *CarRepo) Update(ctx context.Context, c model.Car) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cars SET category_id=?, name=?, transmission=?, fuel=?, color=?,
		 plate_number=?, capacity=?, registration_number=?, price=?, image=?, status=?
		 WHERE id=?`,
		c.CategoryID, c.Name, c.Transmission, c.Fuel, c.Color, c.PlateNumber,
		c.Capacity, c.RegistrationNumber, c.Price, c.Image, c.Status, c.ID)
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

// Delete removes a car.  ErrConflict is returned while transactions
// still reference it.
func (r *CarRepo) Delete(ctx context.Context, id uint64) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE car_id=?", id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM cars WHERE id=?", id)
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
