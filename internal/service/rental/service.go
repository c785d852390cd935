// Package rental implements the transaction lifecycle: booking a car,
// validating the customer's payment and processing the return.  Every
// operation runs as a single database transaction so that the
// transaction row and the car/driver statuses never disagree.
package rental

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
	"github.com/ardiansyahrf/car-rental-api/internal/pricing"
	"github.com/ardiansyahrf/car-rental-api/internal/repository"
	"github.com/ardiansyahrf/car-rental-api/internal/utils"
)

// Sentinel errors mapped to HTTP statuses by the handler layer.
var (
	ErrCarNotFound       = errors.New("car not found")
	ErrCarUnavailable    = errors.New("car is not available")
	ErrDriverNotFound    = errors.New("driver not found")
	ErrDriverUnavailable = errors.New("driver is not available")
	ErrNotFound          = errors.New("transaction not found")
	ErrNotOwner          = errors.New("transaction belongs to another user")
	ErrInvalidState      = errors.New("transaction state does not allow this operation")
	ErrInvalidReturnDate = errors.New("return date is before the rental start date")
)

// invoiceAttempts bounds how many times a booking regenerates its
// invoice after a duplicate-key collision.
const invoiceAttempts = 3

// Service carries out rental lifecycle operations over the car,
// driver and transaction repositories.
type Service struct {
	db      *sql.DB
	txns    *repository.TransactionRepo
	cars    *repository.CarRepo
	drivers *repository.DriverRepo
}

// New constructs a Service.  All dependencies must be non-nil.
func New(db *sql.DB, txns *repository.TransactionRepo, cars *repository.CarRepo, drivers *repository.DriverRepo) *Service {
	if db == nil || txns == nil || cars == nil || drivers == nil {
		panic("nil dependency passed to rental.New")
	}
	return &Service{db: db, txns: txns, cars: cars, drivers: drivers}
}

// CreateInput is a booking request.  DriverName is nil for
// self-driven rentals.  Dates carry no time-of-day component.
type CreateInput struct {
	UserID     uint64
	CarName    string
	DriverName *string
	StartDate  time.Time
	EndDate    time.Time
}

// Create books a car (and optionally a driver) for the requested
// window.  The car is resolved by display name under a row lock, so
// two customers racing for the last available car serialize and the
// loser sees it as Booked.  The transaction starts Pending/Pending
// with total_cost computed upfront from the rental duration.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Transaction, error) {
	days, err := pricing.RentDuration(in.StartDate, in.EndDate)
	if err != nil {
		return model.Transaction{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Transaction{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	car, err := s.cars.GetByNameForUpdateTx(ctx, tx, in.CarName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, ErrCarNotFound
		}
		return model.Transaction{}, err
	}
	if car.Status != model.CarAvailable {
		return model.Transaction{}, ErrCarUnavailable
	}

	var driver *model.Driver
	if in.DriverName != nil {
		d, err := s.drivers.GetByNameForUpdateTx(ctx, tx, *in.DriverName)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.Transaction{}, ErrDriverNotFound
			}
			return model.Transaction{}, err
		}
		if d.Status != model.DriverAvailable {
			return model.Transaction{}, ErrDriverUnavailable
		}
		driver = &d
	}

	t := model.Transaction{
		UserID:        in.UserID,
		CarID:         car.ID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		RentalStatus:  model.RentalPending,
		PaymentStatus: model.PaymentPending,
		TotalCost:     pricing.Quote(car.Price, days, driver != nil),
	}
	if driver != nil {
		t.DriverID = &driver.ID
	}

	// The random invoice suffix can collide within a day.  The unique
	// index catches it; regenerate and retry a few times.
	for attempt := 0; ; attempt++ {
		t.Invoice, err = utils.NewInvoice(time.Now().UTC())
		if err != nil {
			return model.Transaction{}, err
		}
		err = s.txns.CreateTx(ctx, tx, &t)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrInvoiceExists) || attempt+1 >= invoiceAttempts {
			return model.Transaction{}, err
		}
	}

	if err := s.cars.UpdateStatusTx(ctx, tx, car.ID, model.CarBooked); err != nil {
		return model.Transaction{}, err
	}
	if driver != nil {
		if err := s.drivers.UpdateStatusTx(ctx, tx, driver.ID, model.DriverBooked); err != nil {
			return model.Transaction{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Transaction{}, err
	}
	committed = true
	return t, nil
}

// ValidatePayment records an admin's review of the payment proof.
// Approval moves the rental to In Progress and hands the car (and
// driver) over as Rented.  Rejection cancels the rental and releases
// them back to Available.  Only a Pending/Pending transaction can be
// validated; anything else reports ErrInvalidState.
func (s *Service) ValidatePayment(ctx context.Context, id uint64, approve bool) (model.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Transaction{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	t, err := s.txns.GetByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, ErrNotFound
		}
		return model.Transaction{}, err
	}
	if t.RentalStatus != model.RentalPending || t.PaymentStatus != model.PaymentPending {
		return model.Transaction{}, ErrInvalidState
	}

	carStatus, driverStatus := model.CarRented, model.DriverRented
	rentalStatus, paymentStatus := model.RentalInProgress, model.PaymentSuccess
	if !approve {
		carStatus, driverStatus = model.CarAvailable, model.DriverAvailable
		rentalStatus, paymentStatus = model.RentalCanceled, model.PaymentInvalid
	}

	if err := s.txns.UpdateValidationTx(ctx, tx, t.ID, rentalStatus, paymentStatus); err != nil {
		return model.Transaction{}, err
	}
	if err := s.cars.UpdateStatusTx(ctx, tx, t.CarID, carStatus); err != nil {
		return model.Transaction{}, err
	}
	if t.DriverID != nil {
		if err := s.drivers.UpdateStatusTx(ctx, tx, *t.DriverID, driverStatus); err != nil {
			return model.Transaction{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Transaction{}, err
	}
	committed = true

	t.RentalStatus = rentalStatus
	t.PaymentStatus = paymentStatus
	return t, nil
}

// ReturnCar finalizes an In Progress rental owned by userID.  The
// return date is validated before anything changes; a bad date must
// not release the car.  A late return adds 200000 per day to the
// total.  On success the car and driver go back to Available and the
// rental terminates in Success.
func (s *Service) ReturnCar(ctx context.Context, id, userID uint64, returnDate time.Time) (model.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Transaction{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	t, err := s.txns.GetByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, ErrNotFound
		}
		return model.Transaction{}, err
	}
	if t.UserID != userID {
		return model.Transaction{}, ErrNotOwner
	}
	if t.RentalStatus != model.RentalInProgress {
		return model.Transaction{}, ErrInvalidState
	}
	if returnDate.Before(t.StartDate) {
		return model.Transaction{}, ErrInvalidReturnDate
	}

	fee := pricing.LateFee(returnDate, t.EndDate)
	total := t.TotalCost.Add(fee)

	if err := s.txns.UpdateReturnTx(ctx, tx, t.ID, returnDate, fee, total); err != nil {
		return model.Transaction{}, err
	}
	if err := s.cars.UpdateStatusTx(ctx, tx, t.CarID, model.CarAvailable); err != nil {
		return model.Transaction{}, err
	}
	if t.DriverID != nil {
		if err := s.drivers.UpdateStatusTx(ctx, tx, *t.DriverID, model.DriverAvailable); err != nil {
			return model.Transaction{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Transaction{}, err
	}
	committed = true

	t.ReturnDate = &returnDate
	t.LateFee = decimal.NullDecimal{Decimal: fee, Valid: true}
	t.TotalCost = total
	t.RentalStatus = model.RentalSuccess
	return t, nil
}
