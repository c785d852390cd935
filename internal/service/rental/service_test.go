package rental

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
	"github.com/ardiansyahrf/car-rental-api/internal/repository"
)

var txnCols = []string{"id", "user_id", "car_id", "driver_id", "invoice", "start_date",
	"end_date", "return_date", "rental_status", "payment_status", "payment_proof",
	"late_fee", "total_cost", "created_at", "updated_at"}

var carCols = []string{"id", "category_id", "slug", "name", "transmission", "fuel",
	"color", "plate_number", "capacity", "registration_number", "price", "image",
	"status", "created_at", "updated_at"}

var driverCols = []string{"id", "name", "gender", "dob", "address", "phone_number",
	"license_number", "status", "created_at", "updated_at"}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := New(db,
		repository.NewTransactionRepo(db),
		repository.NewCarRepo(db),
		repository.NewDriverRepo(db))
	return svc, mock
}

func carRow(id uint64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(carCols).AddRow(id, 1, "avanza-123", "Avanza", "Automatic",
		"Gasoline", "Black", "B 1234 XY", 7, 9001, "200000.00", "avanza.png",
		status, now, now)
}

func driverRow(id uint64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(driverCols).AddRow(id, "Budi", "Male", date(1990, 5, 2),
		"Jakarta", "0811", "SIM-778", status, now, now)
}

func pendingTxnRow(id, userID, carID uint64, driverID any, start, end time.Time, total string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(txnCols).AddRow(id, userID, carID, driverID, "INV/20260301/48213",
		start, end, nil, model.RentalPending, model.PaymentPending, nil, nil, total, now, now)
}

func TestCreateBooksAvailableCar(t *testing.T) {
	svc, mock := newService(t)
	start, end := date(2026, 3, 1), date(2026, 3, 4)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM cars WHERE name=\? LIMIT 1 FOR UPDATE`).
		WithArgs("Avanza").WillReturnRows(carRow(5, model.CarAvailable))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\?`).
		WithArgs(uint64(11)).
		WillReturnRows(pendingTxnRow(11, 7, 5, nil, start, end, "600000.00"))
	mock.ExpectExec(`UPDATE cars SET status=\? WHERE id=\?`).
		WithArgs(model.CarBooked, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := svc.Create(context.Background(), CreateInput{
		UserID: 7, CarName: "Avanza", StartDate: start, EndDate: end,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(11), got.ID)
	assert.Equal(t, model.RentalPending, got.RentalStatus)
	assert.Equal(t, model.PaymentPending, got.PaymentStatus)
	assert.Nil(t, got.DriverID)
	assert.True(t, got.TotalCost.Equal(decimal.NewFromInt(600000)), "got %s", got.TotalCost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithDriverAddsSurcharge(t *testing.T) {
	svc, mock := newService(t)
	start, end := date(2026, 3, 1), date(2026, 3, 4)
	driverName := "Budi"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM cars WHERE name=\? LIMIT 1 FOR UPDATE`).
		WithArgs("Avanza").WillReturnRows(carRow(5, model.CarAvailable))
	mock.ExpectQuery(`SELECT (.+) FROM drivers WHERE name=\? LIMIT 1 FOR UPDATE`).
		WithArgs("Budi").WillReturnRows(driverRow(3, model.DriverAvailable))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\?`).
		WithArgs(uint64(12)).
		WillReturnRows(pendingTxnRow(12, 7, 5, 3, start, end, "900000.00"))
	mock.ExpectExec(`UPDATE cars SET status=\? WHERE id=\?`).
		WithArgs(model.CarBooked, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE drivers SET status=\? WHERE id=\?`).
		WithArgs(model.DriverBooked, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := svc.Create(context.Background(), CreateInput{
		UserID: 7, CarName: "Avanza", DriverName: &driverName,
		StartDate: start, EndDate: end,
	})
	require.NoError(t, err)
	require.NotNil(t, got.DriverID)
	assert.Equal(t, uint64(3), *got.DriverID)
	assert.True(t, got.TotalCost.Equal(decimal.NewFromInt(900000)), "got %s", got.TotalCost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsUnavailableCar(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM cars WHERE name=\? LIMIT 1 FOR UPDATE`).
		WithArgs("Avanza").WillReturnRows(carRow(5, model.CarBooked))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), CreateInput{
		UserID: 7, CarName: "Avanza",
		StartDate: date(2026, 3, 1), EndDate: date(2026, 3, 4),
	})
	assert.ErrorIs(t, err, ErrCarUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUnknownCar(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM cars WHERE name=\? LIMIT 1 FOR UPDATE`).
		WithArgs("Nope").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), CreateInput{
		UserID: 7, CarName: "Nope",
		StartDate: date(2026, 3, 1), EndDate: date(2026, 3, 4),
	})
	assert.ErrorIs(t, err, ErrCarNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvalidPeriodSkipsDatabase(t *testing.T) {
	svc, mock := newService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		UserID: 7, CarName: "Avanza",
		StartDate: date(2026, 3, 4), EndDate: date(2026, 3, 4),
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRetriesOnInvoiceCollision(t *testing.T) {
	svc, mock := newService(t)
	start, end := date(2026, 3, 1), date(2026, 3, 4)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM cars WHERE name=\? LIMIT 1 FOR UPDATE`).
		WithArgs("Avanza").WillReturnRows(carRow(5, model.CarAvailable))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'INV/20260301/48213' for key 'transactions.invoice'"))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(13, 1))
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\?`).
		WithArgs(uint64(13)).
		WillReturnRows(pendingTxnRow(13, 7, 5, nil, start, end, "600000.00"))
	mock.ExpectExec(`UPDATE cars SET status=\? WHERE id=\?`).
		WithArgs(model.CarBooked, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := svc.Create(context.Background(), CreateInput{
		UserID: 7, CarName: "Avanza", StartDate: start, EndDate: end,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(13), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidatePaymentApprove(t *testing.T) {
	svc, mock := newService(t)
	start, end := date(2026, 3, 1), date(2026, 3, 4)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\? FOR UPDATE`).
		WithArgs(uint64(11)).
		WillReturnRows(pendingTxnRow(11, 7, 5, 3, start, end, "900000.00"))
	mock.ExpectExec(`UPDATE transactions SET rental_status=\?, payment_status=\? WHERE id=\?`).
		WithArgs(model.RentalInProgress, model.PaymentSuccess, uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE cars SET status=\? WHERE id=\?`).
		WithArgs(model.CarRented, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE drivers SET status=\? WHERE id=\?`).
		WithArgs(model.DriverRented, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := svc.ValidatePayment(context.Background(), 11, true)
	require.NoError(t, err)
	assert.Equal(t, model.RentalInProgress, got.RentalStatus)
	assert.Equal(t, model.PaymentSuccess, got.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidatePaymentReject(t *testing.T) {
	svc, mock := newService(t)
	start, end := date(2026, 3, 1), date(2026, 3, 4)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\? FOR UPDATE`).
		WithArgs(uint64(11)).
		WillReturnRows(pendingTxnRow(11, 7, 5, nil, start, end, "600000.00"))
	mock.ExpectExec(`UPDATE transactions SET rental_status=\?, payment_status=\? WHERE id=\?`).
		WithArgs(model.RentalCanceled, model.PaymentInvalid, uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE cars SET status=\? WHERE id=\?`).
		WithArgs(model.CarAvailable, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := svc.ValidatePayment(context.Background(), 11, false)
	require.NoError(t, err)
	assert.Equal(t, model.RentalCanceled, got.RentalStatus)
	assert.Equal(t, model.PaymentInvalid, got.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidatePaymentRejectsTerminalState(t *testing.T) {
	svc, mock := newService(t)
	now := time.Now()
	row := sqlmock.NewRows(txnCols).AddRow(11, 7, 5, nil, "INV/20260301/48213",
		date(2026, 3, 1), date(2026, 3, 4), date(2026, 3, 4), model.RentalSuccess,
		model.PaymentSuccess, nil, "0.00", "600000.00", now, now)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\? FOR UPDATE`).
		WithArgs(uint64(11)).WillReturnRows(row)
	mock.ExpectRollback()

	_, err := svc.ValidatePayment(context.Background(), 11, true)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidatePaymentUnknownTransaction(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\? FOR UPDATE`).
		WithArgs(uint64(99)).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.ValidatePayment(context.Background(), 99, true)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func inProgressTxnRow(id, userID, carID uint64, driverID any, start, end time.Time, total string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(txnCols).AddRow(id, userID, carID, driverID, "INV/20260301/48213",
		start, end, nil, model.RentalInProgress, model.PaymentSuccess, "proof.png", nil,
		total, now, now)
}

func TestReturnCarOnTime(t *testing.T) {
	svc, mock := newService(t)
	start, end := date(2026, 3, 1), date(2026, 3, 4)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\? FOR UPDATE`).
		WithArgs(uint64(11)).
		WillReturnRows(inProgressTxnRow(11, 7, 5, nil, start, end, "600000.00"))
	mock.ExpectExec(`UPDATE transactions SET return_date=\?, late_fee=\?, total_cost=\?, rental_status=\?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE cars SET status=\? WHERE id=\?`).
		WithArgs(model.CarAvailable, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := svc.ReturnCar(context.Background(), 11, 7, end)
	require.NoError(t, err)
	assert.Equal(t, model.RentalSuccess, got.RentalStatus)
	require.True(t, got.LateFee.Valid)
	assert.True(t, got.LateFee.Decimal.IsZero())
	assert.True(t, got.TotalCost.Equal(decimal.NewFromInt(600000)), "got %s", got.TotalCost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnCarLateAddsPenalty(t *testing.T) {
	svc, mock := newService(t)
	start, end := date(2026, 3, 1), date(2026, 3, 4)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\? FOR UPDATE`).
		WithArgs(uint64(11)).
		WillReturnRows(inProgressTxnRow(11, 7, 5, 3, start, end, "900000.00"))
	mock.ExpectExec(`UPDATE transactions SET return_date=\?, late_fee=\?, total_cost=\?, rental_status=\?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE cars SET status=\? WHERE id=\?`).
		WithArgs(model.CarAvailable, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE drivers SET status=\? WHERE id=\?`).
		WithArgs(model.DriverAvailable, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Two days late: 2 * 200000 on top of 900000.
	got, err := svc.ReturnCar(context.Background(), 11, 7, date(2026, 3, 6))
	require.NoError(t, err)
	assert.True(t, got.LateFee.Decimal.Equal(decimal.NewFromInt(400000)), "got %s", got.LateFee.Decimal)
	assert.True(t, got.TotalCost.Equal(decimal.NewFromInt(1300000)), "got %s", got.TotalCost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnCarRejectsForeignTransaction(t *testing.T) {
	svc, mock := newService(t)
	start, end := date(2026, 3, 1), date(2026, 3, 4)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\? FOR UPDATE`).
		WithArgs(uint64(11)).
		WillReturnRows(inProgressTxnRow(11, 7, 5, nil, start, end, "600000.00"))
	mock.ExpectRollback()

	_, err := svc.ReturnCar(context.Background(), 11, 42, end)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnCarValidatesDateBeforeRelease(t *testing.T) {
	svc, mock := newService(t)
	start, end := date(2026, 3, 1), date(2026, 3, 4)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\? FOR UPDATE`).
		WithArgs(uint64(11)).
		WillReturnRows(inProgressTxnRow(11, 7, 5, nil, start, end, "600000.00"))
	mock.ExpectRollback()

	// No status updates may run when the return date is invalid.
	_, err := svc.ReturnCar(context.Background(), 11, 7, date(2026, 2, 27))
	assert.ErrorIs(t, err, ErrInvalidReturnDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnCarRejectsPendingRental(t *testing.T) {
	svc, mock := newService(t)
	start, end := date(2026, 3, 1), date(2026, 3, 4)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\? FOR UPDATE`).
		WithArgs(uint64(11)).
		WillReturnRows(pendingTxnRow(11, 7, 5, nil, start, end, "600000.00"))
	mock.ExpectRollback()

	_, err := svc.ReturnCar(context.Background(), 11, 7, end)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}
