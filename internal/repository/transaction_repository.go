package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
)

const txnColumns = `id, user_id, car_id, driver_id, invoice, start_date, end_date,
	return_date, rental_status, payment_status, payment_proof, late_fee,
	total_cost, created_at, updated_at`

// TransactionRepo provides persistence for rental transactions.  All
// lifecycle mutations (create, payment validation, return) run inside
// a *sql.Tx owned by the rental service so that car/driver status and
// transaction state always change atomically.
type TransactionRepo struct{ db *sql.DB }

// NewTransactionRepo returns a new TransactionRepo bound to the given database.
func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

func scanTransaction(row interface{ Scan(...any) error }) (model.Transaction, error) {
	var (
		t          model.Transaction
		driverID   sql.NullInt64
		returnDate sql.NullTime
		proof      sql.NullString
	)
	err := row.Scan(&t.ID, &t.UserID, &t.CarID, &driverID, &t.Invoice,
		&t.StartDate, &t.EndDate, &returnDate, &t.RentalStatus, &t.PaymentStatus,
		&proof, &t.LateFee, &t.TotalCost, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	if driverID.Valid {
		id := uint64(driverID.Int64)
		t.DriverID = &id
	}
	if returnDate.Valid {
		d := returnDate.Time
		t.ReturnDate = &d
	}
	if proof.Valid {
		p := proof.String
		t.PaymentProof = &p
	}
	return t, nil
}

// CreateTx inserts a new transaction within an existing DB
// transaction and populates the generated ID plus DB-defaulted
// timestamps on the provided record.  ErrInvoiceExists is returned
// when the generated invoice collides with an existing one; the
// caller regenerates and retries.
func (r *TransactionRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	var driverID any
	if t.DriverID != nil {
		driverID = *t.DriverID
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (user_id, car_id, driver_id, invoice, start_date,
		 end_date, rental_status, payment_status, total_cost)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		t.UserID, t.CarID, driverID, t.Invoice, t.StartDate, t.EndDate,
		t.RentalStatus, t.PaymentStatus, t.TotalCost)
	if err != nil {
		if isDuplicate(err) {
			return ErrInvoiceExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	// Query back the row to populate timestamps and defaults.
	got, err := scanTransaction(tx.QueryRowContext(ctx,
		`SELECT `+txnColumns+` FROM transactions WHERE id=?`, t.ID))
	if err != nil {
		return err
	}
	*t = got
	return nil
}

// GetByID fetches a single transaction.
func (r *TransactionRepo) GetByID(ctx context.Context, id uint64) (model.Transaction, error) {
	return scanTransaction(r.db.QueryRowContext(ctx,
		`SELECT `+txnColumns+` FROM transactions WHERE id=?`, id))
}

// GetByIDForUpdateTx locks and returns a transaction row within a DB
// transaction.  Payment validation and return both start here so that
// concurrent state transitions on the same rental serialize.
func (r *TransactionRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Transaction, error) {
	return scanTransaction(tx.QueryRowContext(ctx,
		`SELECT `+txnColumns+` FROM transactions WHERE id=? FOR UPDATE`, id))
}

// UpdateValidationTx records the outcome of a payment review.
func (r *TransactionRepo) UpdateValidationTx(ctx context.Context, tx *sql.Tx, id uint64, rentalStatus, paymentStatus string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE transactions SET rental_status=?, payment_status=? WHERE id=?",
		rentalStatus, paymentStatus, id)
	return err
}

// UpdateReturnTx finalizes a rental: records the return date and any
// late fee, bumps the total cost and marks the rental Success.
func (r *TransactionRepo) UpdateReturnTx(ctx context.Context, tx *sql.Tx, id uint64, returnDate time.Time, lateFee decimal.Decimal, totalCost decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE transactions SET return_date=?, late_fee=?, total_cost=?, rental_status=?
		 WHERE id=?`,
		returnDate, lateFee, totalCost, model.RentalSuccess, id)
	return err
}

// SetPaymentProof records the reference of an uploaded payment proof.
func (r *TransactionRepo) SetPaymentProof(ctx context.Context, id uint64, ref string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET payment_proof=? WHERE id=?", ref, id)
	return err
}

// ListAll returns every transaction, newest first.  Used by admins.
func (r *TransactionRepo) ListAll(ctx context.Context) ([]model.Transaction, error) {
	return r.list(ctx, `SELECT `+txnColumns+` FROM transactions ORDER BY created_at DESC`)
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// TransactionDetail is a transaction joined with the car and driver
// names the customer-facing listing displays.
type TransactionDetail struct {
	model.Transaction
	CarName    string
	DriverName *string
}

// ListByUserDetailed returns the customer's transactions, newest
// first, with the car and driver display names resolved.
func (r *TransactionRepo) ListByUserDetailed(ctx context.Context, userID uint64) ([]TransactionDetail, error) {
	const q = `SELECT t.id, t.user_id, t.car_id, t.driver_id, t.invoice, t.start_date,
	                  t.end_date, t.return_date, t.rental_status, t.payment_status,
	                  t.payment_proof, t.late_fee, t.total_cost, t.created_at, t.updated_at,
	                  c.name, d.name
	           FROM transactions t
	           JOIN cars c ON c.id = t.car_id
	           LEFT JOIN drivers d ON d.id = t.driver_id
	           WHERE t.user_id = ?
	           ORDER BY t.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TransactionDetail, 0)
	for rows.Next() {
		var (
			d          TransactionDetail
			driverID   sql.NullInt64
			returnDate sql.NullTime
			proof      sql.NullString
			driverName sql.NullString
		)
		err := rows.Scan(&d.ID, &d.UserID, &d.CarID, &driverID, &d.Invoice,
			&d.StartDate, &d.EndDate, &returnDate, &d.RentalStatus, &d.PaymentStatus,
			&proof, &d.LateFee, &d.TotalCost, &d.CreatedAt, &d.UpdatedAt,
			&d.CarName, &driverName)
		if err != nil {
			return nil, err
		}
		if driverID.Valid {
			id := uint64(driverID.Int64)
			d.DriverID = &id
		}
		if returnDate.Valid {
			t := returnDate.Time
			d.ReturnDate = &t
		}
		if proof.Valid {
			p := proof.String
			d.PaymentProof = &p
		}
		if driverName.Valid {
			n := driverName.String
			d.DriverName = &n
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ReportRow is one successful transaction joined with the names the
// monthly report displays.
type ReportRow struct {
	Invoice      string
	CustomerName string
	CarName      string
	DriverName   *string
	StartDate    time.Time
	EndDate      time.Time
	ReturnDate   *time.Time
	LateFee      decimal.NullDecimal
	TotalCost    decimal.Decimal
}

// ListSuccessBetween returns rows for transactions that completed
// (rental_status Success) with a start date inside [from, to).
// Ordered by start date so the report reads chronologically.
func (r *TransactionRepo) ListSuccessBetween(ctx context.Context, from, to time.Time) ([]ReportRow, error) {
	const q = `SELECT t.invoice, u.name, c.name, d.name, t.start_date, t.end_date,
	                  t.return_date, t.late_fee, t.total_cost
	           FROM transactions t
	           JOIN users u ON u.id = t.user_id
	           JOIN cars c ON c.id = t.car_id
	           LEFT JOIN drivers d ON d.id = t.driver_id
	           WHERE t.rental_status = ? AND t.start_date >= ? AND t.start_date < ?
	           ORDER BY t.start_date`
	rows, err := r.db.QueryContext(ctx, q, model.RentalSuccess, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReportRow, 0)
	for rows.Next() {
		var (
			row        ReportRow
			driverName sql.NullString
			returnDate sql.NullTime
		)
		if err := rows.Scan(&row.Invoice, &row.CustomerName, &row.CarName,
			&driverName, &row.StartDate, &row.EndDate, &returnDate,
			&row.LateFee, &row.TotalCost); err != nil {
			return nil, err
		}
		if driverName.Valid {
			n := driverName.String
			row.DriverName = &n
		}
		if returnDate.Valid {
			d := returnDate.Time
			row.ReturnDate = &d
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
