package model

import "time"

// Driver availability statuses.  Drivers move through the same
// booking lifecycle as cars, minus the Unavailable maintenance state.
const (
	DriverAvailable = "Available"
	DriverBooked    = "Booked"
	DriverRented    = "Rented"
)

// Driver mirrors the `drivers` table.  A driver is an optional
// participant in a rental transaction; phone and license numbers are
// unique.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name, resolved by transaction creation.
//  Gender        – driver's gender.
//  DOB           – date of birth.
//  Address       – postal address.
//  PhoneNumber   – unique contact number.
//  LicenseNumber – unique driving license number.
//  Status        – one of the Driver* constants above.
type Driver struct {
	ID            uint64    // drivers.id
	Name          string    // drivers.name
	Gender        string    // drivers.gender
	DOB           time.Time // drivers.dob
	Address       string    // drivers.address
	PhoneNumber   string    // drivers.phone_number
	LicenseNumber string    // drivers.license_number
	Status        string    // drivers.status
	CreatedAt     time.Time // drivers.created_at
	UpdatedAt     time.Time // drivers.updated_at
}
