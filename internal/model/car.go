package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Car availability statuses.  Booking, payment validation and return
// move a car between these values; a car is only eligible for a new
// rental while it is CarAvailable.
const (
	CarAvailable   = "Available"
	CarBooked      = "Booked"
	CarRented      = "Rented"
	CarUnavailable = "Unavailable"
)

// Car mirrors the `cars` table.  Price is the daily rental price and
// is stored as DECIMAL(10,2); it is carried as a decimal.Decimal so
// cost arithmetic never goes through binary floats.
//
// Fields:
//  ID                 – primary key identifier.
//  CategoryID         – reference into car_categories.
//  Slug               – unique URL-friendly identifier derived from the name.
//  Name               – display name, resolved by transaction creation.
//  Transmission       – Manual or Automatic.
//  Fuel               – fuel type.
//  Color              – body color.
//  PlateNumber        – unique license plate.
//  Capacity           – passenger capacity.
//  RegistrationNumber – unique vehicle registration number.
//  Price              – daily rental price.
//  Image              – reference to the car's image.
//  Status             – one of the Car* constants above.
type Car struct {
	ID                 uint64          // cars.id
	CategoryID         uint64          // cars.category_id
	Slug               string          // cars.slug
	Name               string          // cars.name
	Transmission       string          // cars.transmission
	Fuel               string          // cars.fuel
	Color              string          // cars.color
	PlateNumber        string          // cars.plate_number
	Capacity           uint32          // cars.capacity
	RegistrationNumber uint64          // cars.registration_number
	Price              decimal.Decimal // cars.price
	Image              string          // cars.image
	Status             string          // cars.status
	CreatedAt          time.Time       // cars.created_at
	UpdatedAt          time.Time       // cars.updated_at
}

// CarCategory mirrors the `car_categories` table.  The pair
// (CarBrand, Type) is unique.
type CarCategory struct {
	ID        uint64    // car_categories.id
	CarBrand  string    // car_categories.car_brand
	Type      string    // car_categories.type
	CreatedAt time.Time // car_categories.created_at
	UpdatedAt time.Time // car_categories.updated_at
}

// CarMaintenance mirrors the `car_maintenances` table.  Each row
// records one servicing of a car with its cost.
type CarMaintenance struct {
	ID              uint64          // car_maintenances.id
	CarID           uint64          // car_maintenances.car_id
	Description     string          // car_maintenances.description
	Cost            decimal.Decimal // car_maintenances.cost
	MaintenanceDate time.Time       // car_maintenances.maintenance_date
	CreatedAt       time.Time       // car_maintenances.created_at
	UpdatedAt       time.Time       // car_maintenances.updated_at
}
