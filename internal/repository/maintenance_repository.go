package repository

import (
	"context"
	"database/sql"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
)

// MaintenanceRepo provides CRUD operations for car maintenance
// records.
type MaintenanceRepo struct{ db *sql.DB }

// NewMaintenanceRepo returns a new MaintenanceRepo bound to the given database.
func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

func scanMaintenance(row interface{ Scan(...any) error }) (model.CarMaintenance, error) {
	var m model.CarMaintenance
	err := row.Scan(&m.ID, &m.CarID, &m.Description, &m.Cost,
		&m.MaintenanceDate, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// Create inserts a maintenance record and returns its ID.
func (r *MaintenanceRepo) Create(ctx context.Context, m model.CarMaintenance) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO car_maintenances (car_id, description, cost, maintenance_date)
		 VALUES (?,?,?,?)`,
		m.CarID, m.Description, m.Cost, m.MaintenanceDate)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single maintenance record.
func (r *MaintenanceRepo) GetByID(ctx context.Context, id uint64) (model.CarMaintenance, error) {
	return scanMaintenance(r.db.QueryRowContext(ctx,
		`SELECT id, car_id, description, cost, maintenance_date, created_at, updated_at
		 FROM car_maintenances WHERE id=?`, id))
}

// ListAll returns every maintenance record, newest servicing first.
func (r *MaintenanceRepo) ListAll(ctx context.Context) ([]model.CarMaintenance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, car_id, description, cost, maintenance_date, created_at, updated_at
		 FROM car_maintenances ORDER BY maintenance_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.CarMaintenance, 0)
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Update rewrites a maintenance record.
func (r *MaintenanceRepo) Update(ctx context.Context, m model.CarMaintenance) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE car_maintenances SET car_id=?, description=?, cost=?, maintenance_date=?
		 WHERE id=?`,
		m.CarID, m.Description, m.Cost, m.MaintenanceDate, m.ID)
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

// Delete removes a maintenance record.
func (r *MaintenanceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM car_maintenances WHERE id=?", id)
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
