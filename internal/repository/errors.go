// Package repository provides raw-SQL persistence over MySQL.  The
// sentinel errors below are shared across repositories so handlers
// can map failure cases to HTTP statuses without inspecting driver
// errors: ErrConflict becomes 409, ErrInvoiceExists stays internal to
// the rental service's retry loop.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when a write cannot proceed because of
// conflicting state: a uniqueness violation, or deleting a row that
// other records still reference (e.g. a car with transactions).
var ErrConflict = errors.New("conflict")

// ErrInvoiceExists is returned when inserting a transaction whose
// generated invoice collides with an existing one. The rental
// service regenerates the invoice and retries.
var ErrInvoiceExists = errors.New("invoice already exists")

// isDuplicate reports whether err is a MySQL duplicate-key error
// (error 1062). The driver does not export a typed error for this,
// so the error text is matched the same way the rest of the
// repositories do.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
