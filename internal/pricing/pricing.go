// Package pricing holds the rental tariff rules: rental duration,
// driver surcharge and the late-return penalty.  All amounts are
// rupiah with two decimal places, carried as decimal.Decimal so that
// arithmetic stays exact end to end.
package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// DriverDailyRate is the flat per-day surcharge for renting with
	// a driver.
	DriverDailyRate = decimal.NewFromInt(100000)

	// LateDailyPenalty is charged per full day the car comes back
	// after the agreed end date.
	LateDailyPenalty = decimal.NewFromInt(200000)
)

// ErrInvalidPeriod is returned when the end date is not strictly
// after the start date.
var ErrInvalidPeriod = errors.New("end date must be after start date")

// RentDuration returns the rental length in whole days.  Dates carry
// no time-of-day component, so the difference is always a whole
// number of days.
func RentDuration(start, end time.Time) (int, error) {
	days := int(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return 0, ErrInvalidPeriod
	}
	return days, nil
}

// Quote computes the upfront total for a rental: the car's daily
// price times the duration, plus the driver surcharge when a driver
// is requested.
func Quote(dailyPrice decimal.Decimal, days int, withDriver bool) decimal.Decimal {
	d := decimal.NewFromInt(int64(days))
	total := dailyPrice.Mul(d)
	if withDriver {
		total = total.Add(DriverDailyRate.Mul(d))
	}
	return total
}

// LateFee returns the penalty owed for returning after the agreed end
// date.  On-time and early returns owe nothing.
func LateFee(returnDate, endDate time.Time) decimal.Decimal {
	daysLate := int(returnDate.Sub(endDate).Hours() / 24)
	if daysLate <= 0 {
		return decimal.Zero
	}
	return LateDailyPenalty.Mul(decimal.NewFromInt(int64(daysLate)))
}
