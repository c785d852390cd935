package repository

import (
	"context"
	"database/sql"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
)

const driverColumns = `id, name, gender, dob, address, phone_number,
	license_number, status, created_at, updated_at`

// DriverRepo provides CRUD operations for drivers plus the
// transactional status helpers used by the rental lifecycle.
type DriverRepo struct{ db *sql.DB }

// NewDriverRepo returns a new DriverRepo bound to the given database.
func NewDriverRepo(db *sql.DB) *DriverRepo { return &DriverRepo{db: db} }

func scanDriver(row interface{ Scan(...any) error }) (model.Driver, error) {
	var d model.Driver
	err := row.Scan(&d.ID, &d.Name, &d.Gender, &d.DOB, &d.Address,
		&d.PhoneNumber, &d.LicenseNumber, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// Create inserts a driver and returns its ID.  ErrConflict is
// returned when the phone or license number already exists.
func (r *DriverRepo) Create(ctx context.Context, d model.Driver) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO drivers (name, gender, dob, address, phone_number, license_number, status)
		 VALUES (?,?,?,?,?,?,?)`,
		d.Name, d.Gender, d.DOB, d.Address, d.PhoneNumber, d.LicenseNumber, d.Status)
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

// GetByID fetches a single driver.
func (r *DriverRepo) GetByID(ctx context.Context, id uint64) (model.Driver, error) {
	return scanDriver(r.db.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id=?`, id))
}

// GetByNameForUpdateTx resolves a driver by name inside a transaction
// with a row lock, mirroring CarRepo.GetByNameForUpdateTx.
func (r *DriverRepo) GetByNameForUpdateTx(ctx context.Context, tx *sql.Tx, name string) (model.Driver, error) {
	return scanDriver(tx.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE name=? LIMIT 1 FOR UPDATE`, name))
}

// UpdateStatusTx sets the availability status of a driver within a
// transaction.
func (r *DriverRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, "UPDATE drivers SET status=? WHERE id=?", status, id)
	return err
}

// ListAll returns all drivers ordered by name.
func (r *DriverRepo) ListAll(ctx context.Context) ([]model.Driver, error) {
	return r.list(ctx, `SELECT `+driverColumns+` FROM drivers ORDER BY name`)
}

// ListAvailable returns drivers currently in the Available status,
// for customers choosing a driver while booking.
func (r *DriverRepo) ListAvailable(ctx context.Context) ([]model.Driver, error) {
	return r.list(ctx, `SELECT `+driverColumns+` FROM drivers WHERE status=? ORDER BY name`,
		model.DriverAvailable)
}

func (r *DriverRepo) list(ctx context.Context, query string, args ...any) ([]model.Driver, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	drivers := make([]model.Driver, 0)
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// Update rewrites the mutable fields of a driver.
func (r *DriverRepo) Update(ctx context.Context, d model.Driver) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE drivers SET name=?, gender=?, dob=?, address=?, phone_number=?,
		 license_number=?, status=? WHERE id=?`,
		d.Name, d.Gender, d.DOB, d.Address, d.PhoneNumber, d.LicenseNumber, d.Status, d.ID)
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

// Delete removes a driver.  ErrConflict is returned while
// transactions still reference them.
func (r *DriverRepo) Delete(ctx context.Context, id uint64) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE driver_id=?", id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM drivers WHERE id=?", id)
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
