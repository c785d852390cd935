package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rental statuses of a transaction.  A transaction starts Pending,
// moves to In Progress once payment is validated, and terminates in
// Success (returned) or Canceled (payment rejected).  No transition
// leaves a terminal state.
const (
	RentalPending    = "Pending"
	RentalInProgress = "In Progress"
	RentalSuccess    = "Success"
	RentalCanceled   = "Canceled"
)

// Payment statuses of a transaction.  Pending until an admin reviews
// the uploaded payment proof, then Success or Invalid.
const (
	PaymentPending = "Pending"
	PaymentSuccess = "Success"
	PaymentInvalid = "Invalid"
)

// Transaction mirrors the `transactions` table.  It ties a user to a
// car (and optionally a driver) for a requested rental window and
// tracks the rental/payment state machine.
//
// Invariants maintained by the rental service:
//  - Invoice is generated once at creation and never reassigned.
//  - EndDate is strictly after StartDate.
//  - TotalCost only ever grows (late fees are added on late return).
//  - ReturnDate, once set, is never cleared.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – customer who booked the rental.
//  CarID         – rented car.
//  DriverID      – optional driver (nil when self-driven).
//  Invoice       – unique invoice code INV/<YYYYMMDD>/<5 digits>.
//  StartDate     – first day of the requested window.
//  EndDate       – last day of the requested window (exclusive of return).
//  ReturnDate    – actual return day, set by the return operation.
//  RentalStatus  – one of the Rental* constants.
//  PaymentStatus – one of the Payment* constants.
//  PaymentProof  – reference to the uploaded payment proof, if any.
//  LateFee       – penalty charged on late return, if any.
//  TotalCost     – total amount owed for the rental.
type Transaction struct {
	ID            uint64              // transactions.id
	UserID        uint64              // transactions.user_id
	CarID         uint64              // transactions.car_id
	DriverID      *uint64             // transactions.driver_id (nullable)
	Invoice       string              // transactions.invoice
	StartDate     time.Time           // transactions.start_date
	EndDate       time.Time           // transactions.end_date
	ReturnDate    *time.Time          // transactions.return_date (nullable)
	RentalStatus  string              // transactions.rental_status
	PaymentStatus string              // transactions.payment_status
	PaymentProof  *string             // transactions.payment_proof (nullable)
	LateFee       decimal.NullDecimal // transactions.late_fee (nullable)
	TotalCost     decimal.Decimal     // transactions.total_cost
	CreatedAt     time.Time           // transactions.created_at
	UpdatedAt     time.Time           // transactions.updated_at
}
