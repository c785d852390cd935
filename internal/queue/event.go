// Package queue defines message payloads exchanged over the message broker.
package queue

// RentalConfirmedEvent is published when an admin approves the payment
// of a rental and the car is handed over.  It carries enough
// information for downstream consumers to log or notify without
// querying the primary database.
type RentalConfirmedEvent struct {
	TransactionID uint64 `json:"transaction_id"`
	Invoice       string `json:"invoice"`
	UserID        uint64 `json:"user_id"`
	CarID         uint64 `json:"car_id"`
	CarName       string `json:"car_name"`
	DriverID      uint64 `json:"driver_id,omitempty"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	TotalCost     string `json:"total_cost"`
	ConfirmedAt   string `json:"confirmed_at"`
}
